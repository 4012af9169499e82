package records

import (
	"testing"
	"time"

	"github.com/deppfellow/labstore/internal/errs"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCar_ApplyDiscount(t *testing.T) {
	car := Car{Model: "Mercedes C63 AMG", Year: 2019, Color: "white", Price: decimal.RequireFromString("120000.00")}

	// 2+0+1+9 = 12%
	assert.True(t, car.YearDiscount().Equal(decimal.RequireFromString("0.12")))

	car.ApplyDiscount()
	assert.Equal(t, "105600.00", car.PriceWithDiscount.StringFixed(2))
}

func TestArtifact_CanBeRenamed(t *testing.T) {
	assert.True(t, Artifact{IsMagical: true, Age: 251}.CanBeRenamed())
	assert.False(t, Artifact{IsMagical: true, Age: 250}.CanBeRenamed())
	assert.False(t, Artifact{IsMagical: false, Age: 900}.CanBeRenamed())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Sofia has a population of 1329000!", Location{Name: "Sofia", Population: 1329000}.String())

	task := Task{Title: "Sample Task", DueDate: time.Date(2023, time.October, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Task - Sample Task needs to be done until 2023-10-31!", task.String())

	room := HotelRoom{RoomNumber: 101, RoomType: RoomDeluxe, PricePerNight: decimal.RequireFromString("150")}
	assert.Equal(t, "Deluxe room with number 101 costs 150.00$ per night!", room.String())
}

func TestDecode(t *testing.T) {
	decoded, err := Decode("Zdvk#wkh#glvkhv")
	require.NoError(t, err)
	assert.Equal(t, "Wash the dishes", decoded)

	_, err = Decode("ab\x02")
	require.True(t, errs.IsValidation(err))
	assert.Equal(t, "Character U+0002 at position 2 cannot be decoded", err.(*errs.Error).Field("text"))
}

func TestIncreaseCapacities(t *testing.T) {
	rooms := []HotelRoom{
		{ID: 1, Capacity: 2, IsReserved: true},
		{ID: 2, Capacity: 3, IsReserved: false},
		{ID: 3, Capacity: 4, IsReserved: true},
		{ID: 4, Capacity: 1, IsReserved: true},
	}

	changed := IncreaseCapacities(rooms)

	want := []HotelRoom{
		{ID: 1, Capacity: 3, IsReserved: true},
		{ID: 3, Capacity: 7, IsReserved: true},
		{ID: 4, Capacity: 8, IsReserved: true},
	}
	if diff := cmp.Diff(want, changed); diff != "" {
		t.Errorf("IncreaseCapacities() mismatch (-want +got):\n%s", diff)
	}

	// input rows are not touched
	assert.Equal(t, 2, rooms[0].Capacity)
}

func TestFuse(t *testing.T) {
	mage := Character{Name: "Gandalf", ClassName: ClassMage, Level: 10, Strength: 15, Dexterity: 20, Intelligence: 25, HitPoints: 100}
	warrior := Character{Name: "Aragorn", ClassName: ClassWarrior, Level: 15, Strength: 20, Dexterity: 15, Intelligence: 10, HitPoints: 120}

	fused := Fuse(mage, warrior)

	want := Character{
		Name:         "Gandalf Aragorn",
		ClassName:    ClassFusion,
		Level:        12,
		Strength:     42,
		Dexterity:    49,
		Intelligence: 52,
		HitPoints:    220,
		Inventory:    "Bow of the Elven Lords, Amulet of Eternal Wisdom",
	}
	if diff := cmp.Diff(want, fused); diff != "" {
		t.Errorf("Fuse() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Dragon Scale Armor, Excalibur", Fuse(warrior, mage).Inventory)
	require.NoError(t, fused.Validate())
}

func TestValidate_Choices(t *testing.T) {
	room := HotelRoom{RoomNumber: 1, RoomType: "Penthouse", Capacity: 2}
	err := room.Validate()
	require.Error(t, err)
	assert.Equal(t, "is not a valid choice", err.(*errs.Error).Field("room_type"))

	character := Character{Name: "Nobody", ClassName: "Bard"}
	err = character.Validate()
	require.Error(t, err)
	assert.Equal(t, "is not a valid choice", err.(*errs.Error).Field("class_name"))
}
