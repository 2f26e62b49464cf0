package recipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/types"
)

func TestBaseMaterials_InfernoBlaster(t *testing.T) {
	got, err := BaseMaterials("Inferno Blaster")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Fire Essence":  3,
		WeaponPrototype: 1,
		MagicCatalyst:   1,
		EnchantedCloth:  1,
	}, got)
}

func TestBaseMaterials_Leaf(t *testing.T) {
	got, err := BaseMaterials("Ice Essence")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Ice Essence": 1}, got)
}

func TestBaseMaterials_Unknown(t *testing.T) {
	_, err := BaseMaterials("Plasma Rifle")
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestNewItem_Synthesis(t *testing.T) {
	tests := []struct {
		name   string
		kind   types.ItemKind
		tier   types.Tier
		elem   types.Element
		weight int
		damage int
	}{
		{"Inferno Blaster", types.KindWeapon, types.TierAdvanced, types.ElementFire, 3, AdvancedDamage},
		{"Frost Dagger", types.KindWeapon, types.TierStandard, types.ElementIce, 2, StandardDamage},
		{"Dark Enhancer", types.KindMaterial, types.TierStandard, types.ElementDark, 2, 0},
		{"Air Essence", types.KindMaterial, types.TierBasic, types.ElementAir, 1, 0},
		{MagicCatalyst, types.KindMaterial, types.TierBasic, types.ElementNone, 1, 0},
	}
	for _, tt := range tests {
		it, err := NewItem(tt.name, 2)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if it.Kind != tt.kind || it.Tier != tt.tier || it.Element != tt.elem ||
			it.Weight != tt.weight || it.Damage != tt.damage || it.Count != 2 {
			t.Errorf("%s: unexpected item %+v", tt.name, it)
		}
	}
}

func TestNewItem_Errors(t *testing.T) {
	if _, err := NewItem("Mystery Box", 1); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	if _, err := NewItem("Fire Essence", 0); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestGraph_Shape(t *testing.T) {
	// Three recipes per element.
	assert.Len(t, Names(), 3*len(element.All))
	assert.True(t, IsEnhancer("Water Enhancer"))
	assert.False(t, IsEnhancer("Water Essence"))
	assert.Equal(t, 0, Depth("Fire Essence"))
	assert.Equal(t, 1, Depth("Flame Sword"))
	assert.Equal(t, 2, Depth("Inferno Blaster"))

	// Shallow recipes come first so intermediates exist before their users.
	names := Names()
	for i := 1; i < len(names); i++ {
		if Depth(names[i-1]) > Depth(names[i]) {
			t.Fatalf("order not shallow-first at %d: %v", i, names)
		}
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())

	saved := graph
	defer func() { graph = saved }()

	graph = map[string][]types.Ingredient{
		"Flame Sword":     {{Item: "Inferno Blaster", Quantity: 1}},
		"Inferno Blaster": {{Item: "Flame Sword", Quantity: 1}},
	}
	if err := Validate(); err == nil {
		t.Error("expected cycle error")
	}

	graph = map[string][]types.Ingredient{
		"Flame Sword": {{Item: "Phoenix Feather", Quantity: 1}},
	}
	if err := Validate(); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
}
