package cmd

import (
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/zkquery/zkquery/pkg/database"
)

// dbFile is the on-disk JSON shape a database is loaded from:
//
//	{"tables": [{"name": "orders", "columns": ["id","amount"], "rows": [[1,100],[2,200]]}]}
type dbFile struct {
	Tables []struct {
		Name    string     `json:"name"`
		Columns []string   `json:"columns"`
		Rows    [][]uint64 `json:"rows"`
	} `json:"tables"`
}

func loadCatalog(path string) (*database.Catalog, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var df dbFile
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, nil, err
	}
	cat := database.NewCatalog()
	order := make([]string, 0, len(df.Tables))
	for _, t := range df.Tables {
		table := &database.Table{Name: t.Name, Columns: t.Columns}
		for _, row := range t.Rows {
			if err := table.Insert(row); err != nil {
				return nil, nil, err
			}
		}
		cat.AddTable(table)
		order = append(order, t.Name)
	}
	return cat, order, nil
}
