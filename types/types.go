// Package types defines the shared data structures for the questforge resolver.
// This package contains only type definitions and no logic.
package types

// Element is one of the eight damage/resistance categories.
type Element string

const (
	ElementNone      Element = ""
	ElementFire      Element = "FIRE"
	ElementWater     Element = "WATER"
	ElementEarth     Element = "EARTH"
	ElementAir       Element = "AIR"
	ElementIce       Element = "ICE"
	ElementLightning Element = "LIGHTNING"
	ElementLight     Element = "LIGHT"
	ElementDark      Element = "DARK"
)

// ItemKind distinguishes the item variants.
type ItemKind int

const (
	KindMaterial ItemKind = iota
	KindWeapon
)

// Tier is the power class of an item. It doubles as a weight multiplier.
type Tier int

const (
	TierBasic Tier = iota + 1
	TierStandard
	TierAdvanced
)

// Item is a stack of identical items. Two items with the same Name occupy
// the same inventory slot.
type Item struct {
	Name    string
	Kind    ItemKind
	Count   int
	Weight  int     // per unit
	Element Element // ElementNone for neutral items
	Tier    Tier
	Damage  int // weapons only
}

// Ingredient is one (item, quantity) entry of a recipe.
type Ingredient struct {
	Item     string
	Quantity int
}

// ActionKind is an enemy's per-turn behavior.
type ActionKind string

const (
	ActionAttack ActionKind = "attack"
	ActionDefend ActionKind = "defend"
	ActionCharge ActionKind = "charge"
)

// Action is one step of an enemy's cyclic behavior pattern.
type Action struct {
	Kind  ActionKind
	Power int // extra damage for attack; ignored otherwise
}

// Enemy is a combatant placed in a level.
type Enemy struct {
	ID      string
	Name    string
	Element Element
	HP      int
	Attack  int
	Pattern []Action // cycled turn by turn; empty means attack every turn
	Drops   []Item
}

// LevelType identifies the level variant.
type LevelType string

const (
	LevelGrowth   LevelType = "growth"
	LevelCombat   LevelType = "combat"
	LevelMiniboss LevelType = "miniboss"
	LevelShop     LevelType = "shop"
	LevelBoss     LevelType = "boss"
)

// Container is a lootable object inside a growth level.
type Container struct {
	Kind  string // "chest", "crate", ...
	Items []Item
}

// Offer is a shop listing. Price is the item the player trades in; nil
// means the item is free.
type Offer struct {
	Item  Item
	Price *Item
}

// Level is one stage of a run. Only the content surfaces matching the
// level's capabilities are populated.
type Level struct {
	Index        int
	Type         LevelType
	Name         string
	Collectibles []Item
	Containers   []Container
	ForSale      []Offer
	Enemies      []Enemy
}

// Rand is the seeded randomness source threaded through generation.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Result is the output of a single inspector query.
type Result struct {
	Output []string
	Trace  []string
}
