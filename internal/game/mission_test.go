package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	built, repaired int
}

func (r *recorder) finishConstruction() { r.built++ }
func (r *recorder) finishRepair()       { r.repaired++ }

func TestMissionAdvance(t *testing.T) {
	m := NewMission(BuildTask{Facility: "mill"}, 7, 3, 2)

	assert.Equal(t, MissionBuild, m.Kind())
	assert.Equal(t, uint32(3), m.Remaining())
	assert.False(t, m.Advance())
	assert.False(t, m.Advance())
	assert.True(t, m.Advance())
	assert.True(t, m.Advance(), "progress never passes duration")
	assert.Equal(t, uint32(3), m.Progress)
	assert.Equal(t, uint32(0), m.Remaining())
}

func TestRunMissionClearsSlotAndApplies(t *testing.T) {
	target := &recorder{}
	slot := NewMission(RepairTask{}, 4, 2, 3)

	assert.Nil(t, runMission(&slot, target))
	assert.NotNil(t, slot)

	out := runMission(&slot, target)
	if assert.NotNil(t, out) {
		assert.Equal(t, MissionOutcome{Kind: MissionRepair, TargetID: 4, StaffReleased: 3}, *out)
	}
	assert.Nil(t, slot)
	assert.Equal(t, 1, target.repaired)
	assert.Equal(t, 0, target.built)

	assert.Nil(t, runMission(&slot, target), "empty slot is a no-op")
}

func TestZeroDurationMissionCompletesOnFirstCycle(t *testing.T) {
	target := &recorder{}
	slot := NewMission(BuildTask{}, 1, 0, -5)
	assert.Equal(t, 0, slot.StaffAssigned, "negative staff clamps to zero")

	out := runMission(&slot, target)
	assert.NotNil(t, out)
	assert.Equal(t, 1, target.built)
}

func TestNilMissionKind(t *testing.T) {
	var m *Mission
	assert.Equal(t, MissionKind(""), m.Kind())
}
