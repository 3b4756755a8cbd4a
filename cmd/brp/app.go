package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KirkDiggler/brp-sheet/internal/domain/character"
	"github.com/KirkDiggler/brp-sheet/internal/domain/shared"
	"github.com/KirkDiggler/brp-sheet/internal/domain/skill"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/services"
	charService "github.com/KirkDiggler/brp-sheet/internal/services/character"
)

var errUsage = errors.New("usage: brp <create|show|list|roll|oppose|powcheck|check|weapon|damage|heal|sanity|recover|fatigue|experience|delete|import|export> [flags] [args]")

type app struct {
	svc      charService.Service
	registry *records.Registry
	out      io.Writer
}

func newApp(provider *services.Provider, out io.Writer) *app {
	subscribeNotices(provider.Events, out)
	return &app{
		svc:      provider.CharacterService,
		registry: provider.Registry,
		out:      out,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	commands := map[string]func(context.Context, []string) error{
		"create":     a.createCmd,
		"show":       a.showCmd,
		"list":       a.listCmd,
		"roll":       a.rollCmd,
		"oppose":     a.opposeCmd,
		"powcheck":   a.powCheckCmd,
		"check":      a.checkCmd,
		"weapon":     a.weaponCmd,
		"damage":     a.damageCmd,
		"heal":       a.healCmd,
		"sanity":     a.sanityCmd,
		"recover":    a.recoverCmd,
		"fatigue":    a.fatigueCmd,
		"experience": a.experienceCmd,
		"delete":     a.deleteCmd,
		"import":     a.importCmd,
		"export":     a.exportCmd,
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return errUsage
	}
	return cmd(ctx, args[1:])
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// positional checks the argument count after flags
func positional(fs *flag.FlagSet, want int, usage string) ([]string, error) {
	if fs.NArg() < want {
		return nil, fmt.Errorf("usage: brp %s %s", fs.Name(), usage)
	}
	return fs.Args(), nil
}

// skillOverrides collects repeated -skill "Name=chance" flags
type skillOverrides []skill.Definition

func (s *skillOverrides) String() string {
	parts := make([]string, 0, len(*s))
	for _, def := range *s {
		parts = append(parts, fmt.Sprintf("%s=%d", def.Name, def.Chance))
	}
	return strings.Join(parts, ",")
}

func (s *skillOverrides) Set(value string) error {
	name, chance, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("skill must look like Name=chance, got %q", value)
	}
	n, err := strconv.Atoi(strings.TrimSpace(chance))
	if err != nil {
		return fmt.Errorf("skill chance for %s: %w", name, err)
	}
	*s = append(*s, skill.Definition{Name: strings.TrimSpace(name), Chance: n, Improvable: true})
	return nil
}

func (a *app) createCmd(ctx context.Context, args []string) error {
	fs := a.flags("create")
	def := shared.DefaultScores()
	rules := character.DefaultRules()

	name := fs.String("name", "", "character name (required)")
	kind := fs.String("kind", string(character.KindBasic), "character kind")
	owner := fs.String("owner", "", "owner ID")
	campaign := fs.String("campaign", "", "campaign ID")
	profession := fs.String("profession", "", "profession")
	language := fs.String("language", "", "primary language")
	str := fs.Int("str", def.STR, "STR")
	con := fs.Int("con", def.CON, "CON")
	pow := fs.Int("pow", def.POW, "POW")
	dex := fs.Int("dex", def.DEX, "DEX")
	cha := fs.Int("cha", def.CHA, "CHA")
	intl := fs.Int("int", def.INT, "INT")
	siz := fs.Int("siz", def.SIZ, "SIZ")
	edu := fs.Int("edu", def.EDU, "EDU")
	mov := fs.Int("mov", def.MOV, "movement")
	fs.BoolVar(&rules.Tough, "tough", rules.Tough, "use the tough hit point rule")
	fs.BoolVar(&rules.UseCategoryBonus, "category-bonus", rules.UseCategoryBonus, "apply skill category bonuses")
	fs.BoolVar(&rules.UseSimpleCategoryBonus, "simple-bonus", rules.UseSimpleCategoryBonus, "use simple category bonuses")
	fs.BoolVar(&rules.UseEducation, "education", rules.UseEducation, "use EDU for knowledge skills")
	fs.BoolVar(&rules.Literate, "literate", rules.Literate, "character can read")
	fs.BoolVar(&rules.CanDrive, "drive", rules.CanDrive, "setting has vehicles")
	fs.BoolVar(&rules.CanFly, "fly", rules.CanFly, "character can fly")
	fs.BoolVar(&rules.EnergyProjection, "projection", rules.EnergyProjection, "character has energy projection")
	fs.IntVar(&rules.ImprovementDie, "improvement-die", 0, "experience improvement die, 0 for the configured default")
	armor := fs.String("armor", "", "armor name")
	protection := fs.String("armor-protection", "", "armor points, number or dice")
	primary := fs.String("weapon", "", "primary weapon damage")
	secondary := fs.String("secondary", "", "secondary weapon damage")
	ranged := fs.String("ranged", "", "ranged weapon damage")
	var skills skillOverrides
	fs.Var(&skills, "skill", "skill override Name=chance, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sheet, err := a.svc.CreateCharacter(ctx, &charService.CreateCharacterInput{Config: character.Config{
		OwnerID:    *owner,
		CampaignID: *campaign,
		Kind:       character.Kind(*kind),
		Bio: character.Biography{
			Name:            *name,
			Profession:      *profession,
			PrimaryLanguage: *language,
		},
		Scores: shared.Scores{
			STR: *str, CON: *con, POW: *pow, DEX: *dex,
			CHA: *cha, INT: *intl, SIZ: *siz, EDU: *edu,
			MOV: *mov,
		},
		Rules: rules,
		Equipment: character.Equipment{
			Armor:           *armor,
			ArmorProtection: *protection,
			PrimaryWeapon:   *primary,
			SecondaryWeapon: *secondary,
			RangedWeapon:    *ranged,
		},
		Skills: skills,
	}})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created %s (%s)\n", sheet.Base().ID, sheet.Base().Bio.Name)
	return nil
}

func (a *app) showCmd(ctx context.Context, args []string) error {
	fs := a.flags("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "<id>")
	if err != nil {
		return err
	}
	sheet, err := a.svc.GetCharacter(ctx, rest[0])
	if err != nil {
		return err
	}
	return printSheet(a.out, sheet)
}

func (a *app) listCmd(ctx context.Context, args []string) error {
	fs := a.flags("list")
	owner := fs.String("owner", "", "owner ID, defaults to the configured owner")
	campaign := fs.String("campaign", "", "campaign ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sheets, err := a.svc.ListCharacters(ctx, &charService.ListCharactersInput{OwnerID: *owner, CampaignID: *campaign})
	if err != nil {
		return err
	}
	return printList(a.out, sheets)
}

func (a *app) rollCmd(ctx context.Context, args []string) error {
	fs := a.flags("roll")
	var opts character.SkillRollOptions
	fs.Float64Var(&opts.Difficulty, "difficulty", 1, "chance multiplier, 2 easy, 0.5 hard")
	fs.IntVar(&opts.Modifier, "modifier", 0, "added to the roll")
	fs.IntVar(&opts.Advantage, "advantage", 0, "positive for advantage, negative for disadvantage")
	fs.BoolVar(&opts.Lucky, "lucky", false, "a roll of 01 succeeds even at chance 0")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "[flags] <id> <skill>")
	if err != nil {
		return err
	}

	name := strings.Join(rest[1:], " ")
	result, err := a.svc.SkillRoll(ctx, &charService.SkillRollInput{CharacterID: rest[0], Skill: name, Options: opts})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: rolled %02d (total %d) %s\n", name, result.Roll, result.Total, result.Rank())
	return nil
}

// opponentFlags registers the flags naming the other side of a contest
func opponentFlags(fs *flag.FlagSet) *charService.OpponentInput {
	o := &charService.OpponentInput{}
	fs.IntVar(&o.Chance, "chance", 50, "flat chance of the opponent")
	fs.StringVar(&o.CharacterID, "against", "", "stored opponent, overrides -chance")
	fs.StringVar(&o.Skill, "their-skill", "", "opponent skill, defaults to the same skill")
	return o
}

func (a *app) opposeCmd(ctx context.Context, args []string) error {
	fs := a.flags("oppose")
	method := fs.String("method", string(charService.OpposedHighest), "highest, subtraction, table or resistance")
	opponent := opponentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "[flags] <id> <skill>")
	if err != nil {
		return err
	}

	name := strings.Join(rest[1:], " ")
	out, err := a.svc.OpposedRoll(ctx, &charService.OpposedRollInput{
		CharacterID: rest[0],
		Skill:       name,
		Method:      charService.OpposedMethod(*method),
		Opponent:    *opponent,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s): %s\n", name, *method, outcome(out.Won, "won", "lost"))
	if out.Mine != nil {
		fmt.Fprintf(a.out, "  mine rolled %02d %s\n", out.Mine.Roll, out.Mine.Rank())
	}
	if out.Theirs != nil {
		fmt.Fprintf(a.out, "  theirs rolled %02d %s\n", out.Theirs.Roll, out.Theirs.Rank())
	}
	return nil
}

func (a *app) powCheckCmd(ctx context.Context, args []string) error {
	fs := a.flags("powcheck")
	opponent := opponentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "[flags] <id>")
	if err != nil {
		return err
	}

	won, err := a.svc.POWCheck(ctx, &charService.POWCheckInput{CharacterID: rest[0], Opponent: *opponent})
	if err != nil {
		return err
	}
	if won {
		fmt.Fprintln(a.out, "POW check won, improvement pending")
		return nil
	}
	fmt.Fprintln(a.out, "POW check lost")
	return nil
}

func (a *app) checkCmd(ctx context.Context, args []string) error {
	fs := a.flags("check")
	input := &charService.CharacteristicRollInput{}
	fs.IntVar(&input.Multiplier, "x", 5, "characteristic multiplier")
	fs.IntVar(&input.Advantage, "advantage", 0, "positive for advantage, negative for disadvantage")
	fs.IntVar(&input.Modifier, "modifier", 0, "subtracted from the roll")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "[flags] <id> <characteristic>")
	if err != nil {
		return err
	}

	input.CharacterID = rest[0]
	input.Characteristic = strings.ToUpper(rest[1])
	ok, err := a.svc.CharacteristicRoll(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s x%d: %s\n", input.Characteristic, input.Multiplier, outcome(ok, "success", "failure"))
	return nil
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func (a *app) weaponCmd(ctx context.Context, args []string) error {
	fs := a.flags("weapon")
	slot := fs.String("slot", string(character.WeaponPrimary), "primary, secondary or ranged")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "[flags] <id>")
	if err != nil {
		return err
	}

	damage, err := a.svc.WeaponDamage(ctx, rest[0], character.WeaponSlot(*slot))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s weapon: %d %+d = %d\n", *slot, damage.Weapon, damage.Modifier, damage.Total)
	return nil
}

func (a *app) damageCmd(ctx context.Context, args []string) error {
	fs := a.flags("damage")
	location := fs.String("location", "", "hit location, empty for general damage")
	bypass := fs.Bool("bypass-armor", false, "ignore armor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "[flags] <id> <amount>")
	if err != nil {
		return err
	}
	amount, err := strconv.Atoi(rest[1])
	if err != nil {
		return fmt.Errorf("damage amount: %w", err)
	}

	condition, err := a.svc.TakeDamage(ctx, &charService.TakeDamageInput{
		CharacterID: rest[0],
		Amount:      amount,
		BypassArmor: *bypass,
		Location:    shared.Location(*location),
	})
	if err != nil {
		return err
	}
	printCondition(a.out, condition)
	return nil
}

func (a *app) healCmd(ctx context.Context, args []string) error {
	fs := a.flags("heal")
	location := fs.String("location", "", "hit location, empty for general healing")
	wounds := fs.Bool("wounds", false, "also clear wounds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "[flags] <id> <amount>")
	if err != nil {
		return err
	}
	amount, err := strconv.Atoi(rest[1])
	if err != nil {
		return fmt.Errorf("heal amount: %w", err)
	}

	sheet, err := a.svc.HealDamage(ctx, &charService.HealDamageInput{
		CharacterID: rest[0],
		Amount:      amount,
		HealWounds:  *wounds,
		Location:    shared.Location(*location),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "hit points %d/%d\n", sheet.Base().HitPoints(), sheet.Base().MaxHitPoints)
	return nil
}

func (a *app) sanityCmd(ctx context.Context, args []string) error {
	fs := a.flags("sanity")
	success := fs.String("success", "0", "loss on success, number or dice")
	fail := fs.String("fail", "", "loss on failure, number or dice (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "-fail <loss> [-success <loss>] <id>")
	if err != nil {
		return err
	}

	result, err := a.svc.SanityRoll(ctx, &charService.SanityRollInput{
		CharacterID:   rest[0],
		LossOnSuccess: *success,
		LossOnFail:    *fail,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "sanity %s: rolled %02d, lost %d\n", outcome(result.Success, "passed", "failed"), result.Roll, result.Loss)
	return nil
}

func (a *app) recoverCmd(ctx context.Context, args []string) error {
	fs := a.flags("recover")
	reset := fs.Bool("reset", false, "end the current sanity loss episode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	want := 2
	if *reset {
		want = 1
	}
	rest, err := positional(fs, want, "[-reset] <id> [amount]")
	if err != nil {
		return err
	}

	if *reset {
		if err := a.svc.ResetSanityLoss(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "sanity episode reset")
		if len(rest) < 2 {
			return nil
		}
	}
	sanity, err := a.svc.RecoverSanity(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "sanity %d\n", sanity)
	return nil
}

func (a *app) fatigueCmd(ctx context.Context, args []string) error {
	fs := a.flags("fatigue")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "<id> <amount>")
	if err != nil {
		return err
	}
	amount, err := strconv.Atoi(rest[1])
	if err != nil {
		return fmt.Errorf("fatigue amount: %w", err)
	}
	fatigue, err := a.svc.ModifyFatigue(ctx, rest[0], amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "fatigue %d\n", fatigue)
	return nil
}

func (a *app) experienceCmd(ctx context.Context, args []string) error {
	fs := a.flags("experience")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "<id>")
	if err != nil {
		return err
	}
	out, err := a.svc.ExperiencePass(ctx, rest[0])
	if err != nil {
		return err
	}
	printExperience(a.out, out)
	return nil
}

func (a *app) deleteCmd(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "<id>")
	if err != nil {
		return err
	}
	if err := a.svc.DeleteCharacter(ctx, rest[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", rest[0])
	return nil
}

func (a *app) importCmd(ctx context.Context, args []string) error {
	fs := a.flags("import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 1, "<file>")
	if err != nil {
		return err
	}
	sheet, err := a.registry.LoadFile(rest[0])
	if err != nil {
		return err
	}
	if err := a.svc.ImportCharacter(ctx, sheet); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %s (%s)\n", sheet.Base().ID, sheet.Base().Bio.Name)
	return nil
}

func (a *app) exportCmd(ctx context.Context, args []string) error {
	fs := a.flags("export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest, err := positional(fs, 2, "<id> <file>")
	if err != nil {
		return err
	}
	sheet, err := a.svc.GetCharacter(ctx, rest[0])
	if err != nil {
		return err
	}
	if err := a.registry.SaveFile(rest[1], sheet); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %s to %s\n", rest[0], rest[1])
	return nil
}
