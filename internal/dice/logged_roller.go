package dice

import "go.uber.org/zap"

// LoggedRoller decorates a Roller and logs every roll at debug level
type LoggedRoller struct {
	next   Roller
	logger *zap.Logger
}

// NewLoggedRoller wraps next. A nil logger disables logging.
func NewLoggedRoller(next Roller, logger *zap.Logger) *LoggedRoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggedRoller{next: next, logger: logger}
}

func (r *LoggedRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	result, err := r.next.Roll(count, sides, bonus)
	if err != nil {
		r.logger.Warn("dice roll failed",
			zap.Int("count", count),
			zap.Int("sides", sides),
			zap.Error(err),
		)
		return nil, err
	}
	r.logger.Debug("dice roll",
		zap.Int("count", count),
		zap.Int("sides", sides),
		zap.Ints("dice", result.Rolls),
		zap.Int("bonus", bonus),
		zap.Int("total", result.Total),
	)
	return result, nil
}

func (r *LoggedRoller) RollPercentile(advantage int) (*RollResult, error) {
	result, err := r.next.RollPercentile(advantage)
	if err != nil {
		r.logger.Warn("percentile roll failed", zap.Int("advantage", advantage), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("percentile roll",
		zap.Int("advantage", advantage),
		zap.Ints("dice", result.Rolls),
		zap.Int("kept", result.Total),
	)
	return result, nil
}
