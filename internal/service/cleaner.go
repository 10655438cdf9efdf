package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/logger"
)

// Organizer sorts one directory into category folders
type Organizer interface {
	Organize(ctx context.Context, dir string, deleteDuplicates bool) (domain.OrganizeResult, error)
}

// Purger empties the temp locations after confirmation
type Purger interface {
	Purge(ctx context.Context) (domain.PurgeResult, error)
}

// History stores finished runs
type History interface {
	RecordRun(summary domain.RunSummary) (int64, error)
}

// Locker guards against concurrent runs
type Locker interface {
	TryAcquire(mode string) error
	Release() error
}

// Run modes recorded in the lock file
const (
	ModeOnce     = "once"
	ModeSchedule = "schedule"
)

// Request selects what one run does
type Request struct {
	Directory        string
	DeleteDuplicates bool
	CleanTemp        bool

	// Mode is recorded as the lock holder's mode; defaults to ModeOnce
	Mode string
}

// Validate checks that the request has at least one target
func (r Request) Validate() error {
	if r.Directory == "" && !r.CleanTemp {
		return domain.ErrNothingToDo
	}
	return nil
}

// Deps are the collaborators of a Cleaner. Organizer is required when a
// request names a directory and Purger when it asks for temp cleanup;
// History and Lock are optional.
type Deps struct {
	Organizer Organizer
	Purger    Purger
	History   History
	Lock      Locker
	Logger    logger.Logger
}

// Cleaner runs the organizer and the purger and aggregates a RunSummary
type Cleaner struct {
	organizer Organizer
	purger    Purger
	history   History
	lock      Locker
	log       logger.Logger
	now       func() time.Time
}

// NewCleaner creates a new cleaner service
func NewCleaner(deps Deps) *Cleaner {
	log := deps.Logger
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Cleaner{
		organizer: deps.Organizer,
		purger:    deps.Purger,
		history:   deps.History,
		lock:      deps.Lock,
		log:       log.With("component", "cleaner"),
		now:       time.Now,
	}
}

// Run executes one pass. The organizer and the purger are independent: a
// setup failure of the organizer is recorded in the summary and the purge
// still runs. The returned error is non-nil for an invalid request, a held
// run lock, a missing collaborator or context cancellation.
func (c *Cleaner) Run(ctx context.Context, req Request) (domain.RunSummary, error) {
	summary := domain.RunSummary{Directory: req.Directory}

	if err := req.Validate(); err != nil {
		return summary, err
	}
	if req.Directory != "" && c.organizer == nil {
		return summary, fmt.Errorf("no organizer configured for %s", req.Directory)
	}
	if req.CleanTemp && c.purger == nil {
		return summary, errors.New("no purger configured")
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeOnce
	}

	if c.lock != nil {
		if err := c.lock.TryAcquire(mode); err != nil {
			c.log.Warn("skipping run", "error", err)
			return summary, err
		}
		defer func() {
			if err := c.lock.Release(); err != nil {
				c.log.Warn("failed to release run lock", "error", err)
			}
		}()
	}

	summary.StartedAt = c.now()
	c.log.Info("starting PC cleaner and organizer",
		"directory", req.Directory,
		"delete_duplicates", req.DeleteDuplicates,
		"clean_temp", req.CleanTemp,
	)

	runErr := c.execute(ctx, req, &summary)

	summary.FinishedAt = c.now()
	c.log.Info("run finished",
		"status", summary.Status(),
		"moved", summary.FilesMoved,
		"duplicates", summary.DuplicatesDeleted,
		"temp_deleted", summary.TempFilesDeleted,
		"freed", humanize.IBytes(uint64(summary.BytesFreed)),
		"errors", len(summary.Errors),
	)

	c.record(summary)
	return summary, runErr
}

func (c *Cleaner) execute(ctx context.Context, req Request, summary *domain.RunSummary) error {
	if req.Directory != "" {
		res, err := c.organizer.Organize(ctx, req.Directory, req.DeleteDuplicates)
		summary.FilesMoved = res.Moved
		summary.DuplicatesDeleted = res.Duplicates
		summary.Errors = append(summary.Errors, res.Errors...)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			summary.SetupError = err.Error()
		}
	}

	if req.CleanTemp {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := c.purger.Purge(ctx)
		summary.TempFilesDeleted = res.Deleted
		summary.BytesFreed = res.BytesFreed
		summary.PurgeDeclined = res.Declined
		summary.Errors = append(summary.Errors, res.Errors...)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Cleaner) record(summary domain.RunSummary) {
	if c.history == nil {
		return
	}
	id, err := c.history.RecordRun(summary)
	if err != nil {
		c.log.Warn("failed to record run history", "error", err)
		return
	}
	c.log.Debug("run recorded", "id", id)
}

// FormatSummary renders the plain-text run summary
func FormatSummary(s domain.RunSummary) string {
	return fmt.Sprintf("Summary:\n- Moved %d files\n- Deleted %d duplicates\n- Deleted %d temp files (%.2f KB freed)",
		s.FilesMoved,
		s.DuplicatesDeleted,
		s.TempFilesDeleted,
		float64(s.BytesFreed)/1024,
	)
}
