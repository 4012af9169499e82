package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// contextKey is unexported so no other package can collide with it.
type contextKey struct{}

// OperationIDKey is the log field that correlates every line written
// during one service operation.
const OperationIDKey = "operation_id"

// Observer runs service operations with a scoped logger and, when New
// Relic is enabled, one background transaction per operation.
//
// A nil *Observer is valid and logs nothing.
type Observer struct {
	logger *zerolog.Logger
	nrApp  *newrelic.Application

	// slowThreshold marks operations worth a warning. Zero disables it.
	slowThreshold time.Duration
}

// NewObserver creates an Observer. loggerService may be nil.
func NewObserver(logger *zerolog.Logger, loggerService *LoggerService, slowThreshold time.Duration) *Observer {
	return &Observer{
		logger:        logger,
		nrApp:         loggerService.GetApplication(),
		slowThreshold: slowThreshold,
	}
}

// FromContext returns the operation-scoped logger stored in ctx.
//
// If no operation is running it returns a no-op logger, so callers never
// need a nil check.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok {
		return l
	}

	nop := zerolog.Nop()
	return &nop
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// start builds the operation context: a fresh operation id, a child logger
// carrying it and the transaction (if any) attached for nrpgx5.
func (o *Observer) start(ctx context.Context, name string) (context.Context, *zerolog.Logger, *newrelic.Transaction) {
	base := zerolog.Nop()
	if o != nil && o.logger != nil {
		base = *o.logger
	}

	operationID := uuid.New().String()

	opLogger := base.With().
		Str("operation", name).
		Str(OperationIDKey, operationID).
		Logger()

	var txn *newrelic.Transaction
	if o != nil && o.nrApp != nil {
		txn = o.nrApp.StartTransaction(name)
		txn.AddAttribute("operation.id", operationID)
		ctx = newrelic.NewContext(ctx, txn)
		opLogger = WithTraceContext(opLogger, txn)
	}

	return WithLogger(ctx, &opLogger), &opLogger, txn
}

// Observe runs fn as the named operation.
//
// It logs start and completion, records the duration, warns when the
// operation is slow and reports failures to New Relic. The error from fn
// is returned untouched.
func Observe[T any](ctx context.Context, o *Observer, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()

	ctx, log, txn := o.start(ctx, name)
	if txn != nil {
		defer txn.End()
	}

	log.Debug().Msg("operation started")

	result, err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Dur("duration", duration).
			Msg("operation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("operation.status", "error")
		}
		return result, err
	}

	if txn != nil {
		txn.AddAttribute("operation.status", "success")
		txn.AddAttribute("operation.duration_ms", duration.Milliseconds())
	}

	if o != nil && o.slowThreshold > 0 && duration >= o.slowThreshold {
		log.Warn().
			Dur("duration", duration).
			Dur("threshold", o.slowThreshold).
			Msg("slow operation")
	} else {
		log.Debug().
			Dur("duration", duration).
			Msg("operation completed")
	}

	return result, nil
}

// Run is Observe for operations that only return an error.
func Run(ctx context.Context, o *Observer, name string, fn func(ctx context.Context) error) error {
	_, err := Observe(ctx, o, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
