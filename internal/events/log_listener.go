package events

import (
	"go.uber.org/zap"
)

// LogPriority runs the log listener after anything that may cancel
const LogPriority = 1000

// LogListener writes one structured line per event
type LogListener struct {
	logger *zap.Logger
}

func NewLogListener(logger *zap.Logger) *LogListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogListener{logger: logger}
}

func (l *LogListener) ID() string    { return "log" }
func (l *LogListener) Priority() int { return LogPriority }

func (l *LogListener) HandleEvent(event Event) error {
	fields := []zap.Field{zap.String("character_id", event.GetCharacterID())}

	switch e := event.(type) {
	case *CharacterEvent:
		if c := e.GetCharacter(); c != nil {
			fields = append(fields,
				zap.String("name", c.Bio.Name),
				zap.String("kind", string(c.Kind)),
				zap.Int("hit_points", c.HitPoints()),
			)
		}
	case *SkillRolledEvent:
		fields = append(fields,
			zap.String("skill", e.Skill),
			zap.Int("roll", e.Result.Roll),
			zap.Int("total", e.Result.Total),
			zap.Stringer("rank", e.Result.Rank()),
		)
	case *WeaponRolledEvent:
		fields = append(fields,
			zap.String("slot", string(e.Slot)),
			zap.Int("total", e.Damage.Total),
		)
	case *DamageTakenEvent:
		c := e.GetCharacter()
		fields = append(fields,
			zap.String("location", string(e.Location)),
			zap.Int("applied", e.Condition.Applied),
			zap.Int("absorbed", e.Condition.Absorbed),
			zap.Int("hit_points", c.HitPoints()),
			zap.Bool("major_wound", c.MajorWound),
			zap.Bool("dying", e.Condition.Dying),
		)
	case *DamageHealedEvent:
		fields = append(fields,
			zap.Int("amount", e.Amount),
			zap.Int("hit_points", e.GetCharacter().HitPoints()),
		)
	case *SanityRolledEvent:
		c := e.GetCharacter()
		fields = append(fields,
			zap.Bool("success", e.Result.Success),
			zap.Int("loss", e.Result.Loss),
			zap.Int("sanity", c.Sanity),
			zap.Bool("temporarily_insane", c.TemporarilyInsane),
			zap.Bool("permanently_insane", c.PermanentlyInsane),
		)
	case *SanityRecoveredEvent:
		fields = append(fields,
			zap.Int("gained", e.Gained),
			zap.Int("sanity", e.GetCharacter().Sanity),
		)
	case *SanityResetEvent:
		fields = append(fields, zap.Int("cleared", e.Cleared))
	case *FatigueChangedEvent:
		fields = append(fields,
			zap.Int("amount", e.Amount),
			zap.Int("fatigue", e.GetCharacter().Fatigue),
		)
	case *ExperienceSpentEvent:
		gained := 0
		for _, imp := range e.Improvements {
			gained += imp.Gain
		}
		fields = append(fields,
			zap.Int("checks", len(e.Improvements)),
			zap.Int("skill_points", gained),
			zap.Int("pow_gain", e.POWGain),
		)
	case *OpposedRolledEvent:
		fields = append(fields,
			zap.String("skill", e.Skill),
			zap.String("method", e.Method),
			zap.Bool("won", e.Won),
		)
		if e.OpponentID != "" {
			fields = append(fields, zap.String("opponent_id", e.OpponentID))
		}
	case *POWCheckedEvent:
		fields = append(fields, zap.Bool("won", e.Won))
	case *CharacteristicRolledEvent:
		fields = append(fields,
			zap.String("characteristic", e.Characteristic),
			zap.Int("multiplier", e.Multiplier),
			zap.Bool("success", e.Success),
		)
	}

	l.logger.Info(string(event.GetType()), fields...)
	return nil
}
