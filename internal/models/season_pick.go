package models

// Championship order sizes
const (
	WDCSlots = 22
	WCCSlots = 11
)

// CategoryGroup groups the non-standings season picks
type CategoryGroup string

// Category groups
const (
	CategoryWDCBonus CategoryGroup = "wdc_bonus"
	CategoryWCCBonus CategoryGroup = "wcc_bonus"
	CategoryOutOfBox CategoryGroup = "out_of_box"
	CategoryChaos    CategoryGroup = "chaos"
	CategoryBigBrain CategoryGroup = "big_brain"
	CategoryBingo    CategoryGroup = "bingo"
	CategoryCurses   CategoryGroup = "curses"
)

// AllCategoryGroups lists the groups in display order
var AllCategoryGroups = []CategoryGroup{
	CategoryWDCBonus,
	CategoryWCCBonus,
	CategoryOutOfBox,
	CategoryChaos,
	CategoryBigBrain,
	CategoryBingo,
	CategoryCurses,
}

// CategoryPick is one non-standings season pick
type CategoryPick struct {
	Group CategoryGroup `json:"group"`
	Field string        `json:"field"`
	Pick  string        `json:"pick"`
}

// SeasonPick holds a user's season-long championship predictions
type SeasonPick struct {
	User       string         `db:"user_name" json:"user" validate:"required"`
	Season     int            `db:"season" json:"season" validate:"required,gt=0"`
	WDC        []string       `db:"wdc" json:"wdc"`
	WCC        []string       `db:"wcc" json:"wcc"`
	Categories []CategoryPick `db:"categories" json:"categories"`
}

// Validate enforces slot counts and that no id repeats within an order.
// Empty slots are allowed while a pick is still being filled in.
func (sp SeasonPick) Validate() error {
	if sp.User == "" {
		return ErrUserRequired.WithField("user")
	}
	if sp.Season <= 0 {
		return ErrSeasonRequired.WithField("season")
	}
	if len(sp.WDC) > WDCSlots {
		return ErrInvalidOrderLength.WithField("wdc")
	}
	if len(sp.WCC) > WCCSlots {
		return ErrInvalidOrderLength.WithField("wcc")
	}
	if dup, ok := firstDuplicate(sp.WDC); ok {
		return ErrDuplicateOrderID.WithField("wdc:" + dup)
	}
	if dup, ok := firstDuplicate(sp.WCC); ok {
		return ErrDuplicateOrderID.WithField("wcc:" + dup)
	}
	return nil
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			return id, true
		}
		seen[id] = true
	}
	return "", false
}

// Key is the adjudication key for a category pick
func (c CategoryPick) Key() string {
	return string(c.Group) + "." + c.Field
}
