package tabulate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MatthewNewland/rcvplus/core"
	"github.com/MatthewNewland/rcvplus/report"
)

// Job is one election to count.
type Job struct {
	// Name labels the job in logs, usually the input file
	Name string

	// Method is a counting method name as returned by ParseMethod
	Method string

	Seats    int
	TieBreak core.TiePolicy

	// Ballots feed IRV, BTR-IRV and STV; Run mutates them
	Ballots core.Ballots

	// Parties feed Webster
	Parties []core.PartyVotes
}

// Outcome is a finished run. Exactly one of Result, STV and Apportionment is set.
type Outcome struct {
	RunID       uuid.UUID
	Name        string
	Method      string
	Seats       int
	Fingerprint string
	Duration    time.Duration

	Result        *core.Result
	STV           *core.STVResult
	Apportionment *core.Apportionment
}

// Winners lists elected candidates, or parties awarded a seat.
func (o *Outcome) Winners() []string {
	return o.Document().Winners
}

// Document converts the outcome to its report form.
func (o *Outcome) Document() *report.Document {
	var doc *report.Document
	switch {
	case o.Result != nil:
		doc = report.FromResult(o.Result)
	case o.STV != nil:
		doc = report.FromSTV(o.STV)
	case o.Apportionment != nil:
		doc = report.FromApportionment(o.Apportionment)
	default:
		doc = &report.Document{Method: o.Method, Seats: o.Seats, Winners: []string{}}
	}
	doc.RunID = o.RunID.String()
	doc.Fingerprint = o.Fingerprint
	doc.DurationNS = o.Duration.Nanoseconds()
	return doc
}

// Runner counts jobs and logs their progress.
type Runner struct {
	logger *zap.Logger
}

// NewRunner returns a Runner logging to logger; nil discards logs.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run counts one job. The job's ballots are mutated; use RunBatch or pass a
// Clone to keep them.
func (r *Runner) Run(ctx context.Context, job Job) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	out := &Outcome{
		RunID:  uuid.New(),
		Name:   job.Name,
		Method: job.Method,
		Seats:  job.Seats,
	}
	if IsPartyMethod(job.Method) {
		out.Fingerprint = core.ComputePartyVotesHash(job.Parties)
	} else {
		out.Fingerprint = core.ComputeBallotsHash(job.Ballots)
	}

	log := r.logger.With(
		zap.String("run_id", out.RunID.String()),
		zap.String("job", job.Name),
		zap.String("method", job.Method),
	)
	log.Info("tabulation started",
		zap.Int("seats", job.Seats),
		zap.Int("ballots", len(job.Ballots)),
		zap.Int("parties", len(job.Parties)),
		zap.String("fingerprint", out.Fingerprint),
	)

	var rounds []core.Round
	var err error
	switch job.Method {
	case core.MethodIRV:
		out.Seats = 1
		out.Result, err = core.IRV(job.Ballots, r.tieOrder(job))
		if err == nil {
			rounds = out.Result.Rounds
		}
	case core.MethodBTRIRV:
		out.Seats = 1
		out.Result, err = core.BTRIRV(job.Ballots, r.tieOrder(job))
		if err == nil {
			rounds = out.Result.Rounds
		}
	case core.MethodSTV:
		out.STV, err = core.STV(job.Ballots, job.Seats, r.tieOrder(job))
		if err == nil {
			rounds = out.STV.Rounds
		}
	case core.MethodWebster:
		out.Apportionment, err = core.Webster(job.Parties, job.Seats, r.tieOrder(job))
	default:
		err = fmt.Errorf("%w: %q", core.ErrUnknownMethod, job.Method)
	}
	out.Duration = time.Since(startTime)

	if err != nil {
		log.Error("tabulation failed", zap.Error(err), zap.Duration("duration", out.Duration))
		return nil, fmt.Errorf("tabulate %s: %w", job.Name, err)
	}

	for i, round := range rounds {
		log.Debug("round complete",
			zap.Int("round", i+1),
			zap.Int("candidates", len(round.Tally)),
			zap.Int("exhausted", round.Exhausted),
			zap.Float64("threshold", round.Threshold),
			zap.String("elected", round.Elected),
			zap.String("eliminated", round.Eliminated),
			zap.Bool("backfilled", round.Backfilled),
		)
	}
	log.Info("tabulation complete",
		zap.Strings("winners", out.Winners()),
		zap.Int("rounds", len(rounds)),
		zap.Duration("duration", out.Duration),
	)
	return out, nil
}

// tieOrder builds the job's tie order over the candidates in input order.
func (r *Runner) tieOrder(job Job) *core.TieOrder {
	if IsPartyMethod(job.Method) {
		parties := make([]core.Candidate, 0, len(job.Parties))
		for _, pv := range job.Parties {
			parties = append(parties, pv.Party)
		}
		return core.NewTieOrder(job.TieBreak, parties)
	}
	return core.NewTieOrder(job.TieBreak, job.Ballots.Candidates())
}
