package dex

// Decoded entry shapes, one per data file. These are what the resolver
// stores; computed fields live on the accessor types (Species, Move, ...).

// StatsTable is a base stat block.
type StatsTable struct {
	HP  int `yaml:"hp" json:"hp"`
	Atk int `yaml:"atk" json:"atk"`
	Def int `yaml:"def" json:"def"`
	SpA int `yaml:"spa" json:"spa"`
	SpD int `yaml:"spd" json:"spd"`
	Spe int `yaml:"spe" json:"spe"`
}

// Total returns the base stat total.
func (s StatsTable) Total() int {
	return s.HP + s.Atk + s.Def + s.SpA + s.SpD + s.Spe
}

// Abilities are a species' ability slots.
type Abilities struct {
	First   string `yaml:"0" json:"0,omitempty"`
	Second  string `yaml:"1" json:"1,omitempty"`
	Hidden  string `yaml:"H" json:"H,omitempty"`
	Special string `yaml:"S" json:"S,omitempty"`
}

// All returns the non-empty ability names in slot order.
func (a Abilities) All() []string {
	var out []string
	for _, name := range []string{a.First, a.Second, a.Hidden, a.Special} {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// GenderRatio is the chance of each gender.
type GenderRatio struct {
	M float64 `yaml:"M" json:"M"`
	F float64 `yaml:"F" json:"F"`
}

// SpeciesData is one pokedex.yaml entry.
type SpeciesData struct {
	Num         int          `yaml:"num" json:"num"`
	Name        string       `yaml:"name" json:"name"`
	BaseSpecies string       `yaml:"baseSpecies" json:"baseSpecies,omitempty"`
	Forme       string       `yaml:"forme" json:"forme,omitempty"`
	OtherFormes []string     `yaml:"otherFormes" json:"otherFormes,omitempty"`
	Types       []string     `yaml:"types" json:"types"`
	Gender      string       `yaml:"gender" json:"gender,omitempty"`
	GenderRatio *GenderRatio `yaml:"genderRatio" json:"-"`
	BaseStats   StatsTable   `yaml:"baseStats" json:"baseStats"`
	Abilities   Abilities    `yaml:"abilities" json:"abilities"`
	HeightM     float64      `yaml:"heightm" json:"heightm,omitempty"`
	WeightKg    float64      `yaml:"weightkg" json:"weightkg,omitempty"`
	Color       string       `yaml:"color" json:"color,omitempty"`
	Evos        []string     `yaml:"evos" json:"-"`
	Prevo       string       `yaml:"prevo" json:"prevo,omitempty"`
	EvoLevel    int          `yaml:"evoLevel" json:"evoLevel,omitempty"`
	EggGroups   []string     `yaml:"eggGroups" json:"-"`
}

// EventInfo is one distribution event.
type EventInfo struct {
	Generation int      `yaml:"generation" json:"generation"`
	Level      int      `yaml:"level" json:"level,omitempty"`
	IsHidden   bool     `yaml:"isHidden" json:"isHidden,omitempty"`
	Abilities  []string `yaml:"abilities" json:"abilities,omitempty"`
	Moves      []string `yaml:"moves" json:"moves,omitempty"`
	Gender     string   `yaml:"gender" json:"gender,omitempty"`
	Nature     string   `yaml:"nature" json:"nature,omitempty"`
}

// FormatsData is one formats-data.yaml entry.
type FormatsData struct {
	Tier          string      `yaml:"tier" json:"-"`
	DoublesTier   string      `yaml:"doublesTier" json:"-"`
	Gen           int         `yaml:"gen" json:"-"`
	IsNonstandard string      `yaml:"isNonstandard" json:"isNonstandard,omitempty"`
	BattleOnly    bool        `yaml:"battleOnly" json:"-"`
	RequiredItem  string      `yaml:"requiredItem" json:"requiredItem,omitempty"`
	RequiredItems []string    `yaml:"requiredItems" json:"-"`
	EventPokemon  []EventInfo `yaml:"eventPokemon" json:"eventPokemon,omitempty"`
	EventOnly     bool        `yaml:"eventOnly" json:"eventOnly,omitempty"`
}

// LearnsetData is one learnsets.yaml entry.
type LearnsetData struct {
	Learnset map[string]LearnSources `yaml:"learnset"`
}

// MoveData is one moves.yaml entry.
type MoveData struct {
	Num            int            `yaml:"num" json:"num"`
	Name           string         `yaml:"name" json:"name"`
	Type           string         `yaml:"type" json:"type"`
	Category       string         `yaml:"category" json:"category"`
	BasePower      int            `yaml:"basePower" json:"basePower"`
	PP             int            `yaml:"pp" json:"pp"`
	Priority       int            `yaml:"priority" json:"-"`
	CritRatio      int            `yaml:"critRatio" json:"-"`
	Flags          map[string]int `yaml:"flags" json:"-"`
	Target         string         `yaml:"target" json:"target,omitempty"`
	IsNonstandard  string         `yaml:"isNonstandard" json:"isNonstandard,omitempty"`
	IsZ            string         `yaml:"isZ" json:"isZ,omitempty"`
	NoSketch       bool           `yaml:"noSketch" json:"noSketch,omitempty"`
	BaseMoveType   string         `yaml:"baseMoveType" json:"-"`
	IgnoreImmunity *bool          `yaml:"ignoreImmunity" json:"-"`
	Desc           string         `yaml:"desc" json:"desc,omitempty"`
	ShortDesc      string         `yaml:"shortDesc" json:"shortDesc,omitempty"`
}

// Fling describes an item's Fling behavior.
type Fling struct {
	BasePower int `yaml:"basePower" json:"basePower"`
}

// ItemData is one items.yaml entry.
type ItemData struct {
	Num           int    `yaml:"num" json:"num"`
	Name          string `yaml:"name" json:"name"`
	Gen           int    `yaml:"gen" json:"-"`
	IsBerry       bool   `yaml:"isBerry" json:"isBerry,omitempty"`
	MegaStone     string `yaml:"megaStone" json:"megaStone,omitempty"`
	MegaEvolves   string `yaml:"megaEvolves" json:"megaEvolves,omitempty"`
	OnDrive       string `yaml:"onDrive" json:"onDrive,omitempty"`
	OnMemory      string `yaml:"onMemory" json:"onMemory,omitempty"`
	OnPlate       string `yaml:"onPlate" json:"onPlate,omitempty"`
	ZMove         string `yaml:"zMove" json:"zMove,omitempty"`
	IsNonstandard string `yaml:"isNonstandard" json:"isNonstandard,omitempty"`
	Fling         *Fling `yaml:"fling" json:"-"`
	Desc          string `yaml:"desc" json:"desc,omitempty"`
}

// AbilityData is one abilities.yaml entry.
type AbilityData struct {
	Num           int     `yaml:"num" json:"num"`
	Name          string  `yaml:"name" json:"name"`
	IsNonstandard string  `yaml:"isNonstandard" json:"isNonstandard,omitempty"`
	Rating        float64 `yaml:"rating" json:"rating,omitempty"`
	Desc          string  `yaml:"desc" json:"desc,omitempty"`
	ShortDesc     string  `yaml:"shortDesc" json:"shortDesc,omitempty"`
}

// Damage multipliers used by the type chart's damageTaken map.
const (
	DamageNeutral = 0
	DamageWeak    = 1
	DamageResist  = 2
	DamageImmune  = 3
)

// TypeData is one typechart.yaml entry. DamageTaken is keyed by attacking
// type name.
type TypeData struct {
	DamageTaken map[string]int `yaml:"damageTaken" json:"damageTaken"`
}

// Nature is a stat-modifying nature.
type Nature struct {
	Name  string `json:"name"`
	Plus  string `json:"plus,omitempty"`
	Minus string `json:"minus,omitempty"`
}

var builtinNatures = map[string]Nature{
	"adamant": {Name: "Adamant", Plus: "atk", Minus: "spa"},
	"bashful": {Name: "Bashful"},
	"bold":    {Name: "Bold", Plus: "def", Minus: "atk"},
	"brave":   {Name: "Brave", Plus: "atk", Minus: "spe"},
	"calm":    {Name: "Calm", Plus: "spd", Minus: "atk"},
	"careful": {Name: "Careful", Plus: "spd", Minus: "spa"},
	"docile":  {Name: "Docile"},
	"gentle":  {Name: "Gentle", Plus: "spd", Minus: "def"},
	"hardy":   {Name: "Hardy"},
	"hasty":   {Name: "Hasty", Plus: "spe", Minus: "def"},
	"impish":  {Name: "Impish", Plus: "def", Minus: "spa"},
	"jolly":   {Name: "Jolly", Plus: "spe", Minus: "spa"},
	"lax":     {Name: "Lax", Plus: "def", Minus: "spd"},
	"lonely":  {Name: "Lonely", Plus: "atk", Minus: "def"},
	"mild":    {Name: "Mild", Plus: "spa", Minus: "def"},
	"modest":  {Name: "Modest", Plus: "spa", Minus: "atk"},
	"naive":   {Name: "Naive", Plus: "spe", Minus: "spd"},
	"naughty": {Name: "Naughty", Plus: "atk", Minus: "spd"},
	"quiet":   {Name: "Quiet", Plus: "spa", Minus: "spe"},
	"quirky":  {Name: "Quirky"},
	"rash":    {Name: "Rash", Plus: "spa", Minus: "spd"},
	"relaxed": {Name: "Relaxed", Plus: "def", Minus: "spe"},
	"sassy":   {Name: "Sassy", Plus: "spd", Minus: "spe"},
	"serious": {Name: "Serious"},
	"timid":   {Name: "Timid", Plus: "spe", Minus: "atk"},
}
