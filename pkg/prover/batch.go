package prover

import (
	"context"
	"crypto/rand"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zkquery/zkquery/pkg/circuit"
)

// BatchJob is one query's worth of work handed to the BatchProver: the
// assembled circuit to prove plus an identifier for log correlation.
type BatchJob struct {
	ID        uuid.UUID
	Assembled *circuit.Assembled
}

// BatchResult pairs a job's proof bytes with its ID. Although batch
// proving fans work out across goroutines, Prove returns results in job
// order.
type BatchResult struct {
	ID    uuid.UUID
	Proof []byte
}

// BatchProver proves many independent circuits concurrently using
// errgroup, per SPEC_FULL.md §5: circuit synthesis is single-threaded per
// circuit, but independent circuits between proofs may run in parallel; a
// failure in any one job cancels the rest of the batch and the error is
// returned to the caller, matching "partial failures fail the whole
// batch" verbatim. Grounded on leanlp-BTC-coinjoin's errgroup-based
// concurrent engine shape (many independent units of work, first error
// wins).
type BatchProver struct {
	Backend Backend
	Params  Params
	PK      ProvingKey
	// Concurrency caps the number of proofs running at once. Zero means
	// runtime.NumCPU().
	Concurrency int
}

// Prove runs every job in jobs, returning results in the same order jobs
// were given (not completion order), or the first error encountered.
func (bp *BatchProver) Prove(ctx context.Context, jobs []BatchJob) ([]BatchResult, error) {
	limit := bp.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]BatchResult, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			log.WithField("job_id", job.ID).Debug("batch: proving job")
			proof, err := bp.Backend.CreateProof(bp.Params, bp.PK, job.Assembled, rand.Reader)
			if err != nil {
				return err
			}
			results[i] = BatchResult{ID: job.ID, Proof: proof}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// IncrementalProver remembers, per catalog table, how many rows were
// present the last time it proved a query over that table, so a future
// append-only reload can decide whether a cheaper incremental resynthesis
// is possible. This is bookkeeping only (SPEC_FULL.md §2's
// "IncrementalProver stub"): it does not itself implement incremental
// circuit synthesis, which would require a backend supporting folded or
// accumulated proofs, out of this module's scope per spec.md §1's
// recursion-wrapper non-goal.
type IncrementalProver struct {
	lastRowCount map[string]int
}

// NewIncrementalProver creates an empty tracker.
func NewIncrementalProver() *IncrementalProver {
	return &IncrementalProver{lastRowCount: make(map[string]int)}
}

// Observe records the current row count for table and reports whether it
// grew or stayed the same (append-only) since the last Observe call, or
// shrank (in which case the caller must fully resynthesize). The first
// Observe for a table reports false, since there is no baseline.
func (ip *IncrementalProver) Observe(table string, rowCount int) (appendOnly bool) {
	prev, ok := ip.lastRowCount[table]
	ip.lastRowCount[table] = rowCount
	if !ok {
		return false
	}
	appendOnly = rowCount >= prev
	if !appendOnly {
		logrus.WithFields(logrus.Fields{"table": table, "prev": prev, "now": rowCount}).
			Warn("incremental prover: row count decreased, full resynthesis required")
	}
	return appendOnly
}
