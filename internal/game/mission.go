/*
Package game
File: mission.go
Description:
    Timed tasks attached to a facility or a ship. A Mission owns its progress
    counter; what happens on completion is decided by its Task, so the owner
    never has to switch on a mission type.
*/

package game

// MissionKind names the task variant, used in saves and snapshots.
type MissionKind string

const (
	MissionBuild  MissionKind = "build"
	MissionRepair MissionKind = "repair"
)

// missionTarget is anything a mission can finish into.
type missionTarget interface {
	finishConstruction()
	finishRepair()
}

// MissionTask is the completion payload of a Mission.
type MissionTask interface {
	Kind() MissionKind
	complete(t missionTarget)
}

// BuildTask brings a newly placed facility online.
type BuildTask struct {
	Facility string // template being built
}

func (BuildTask) Kind() MissionKind        { return MissionBuild }
func (BuildTask) complete(t missionTarget) { t.finishConstruction() }

// RepairTask clears facility damage or restores a ship's hull.
type RepairTask struct{}

func (RepairTask) Kind() MissionKind        { return MissionRepair }
func (RepairTask) complete(t missionTarget) { t.finishRepair() }

// Mission is exclusively owned by the facility or ship it is attached to.
// Progress stays within [0, Duration].
type Mission struct {
	Task          MissionTask
	TargetID      uint32
	Progress      uint32
	Duration      uint32
	StaffAssigned int
}

// MissionOutcome reports a mission that finished during a cycle.
type MissionOutcome struct {
	Kind          MissionKind `json:"kind"`
	TargetID      uint32      `json:"target_id"`
	StaffReleased int         `json:"staff_released"`
}

// NewMission creates a mission with no progress.
func NewMission(task MissionTask, targetID, duration uint32, staff int) *Mission {
	if staff < 0 {
		staff = 0
	}
	return &Mission{
		Task:          task,
		TargetID:      targetID,
		Duration:      duration,
		StaffAssigned: staff,
	}
}

// Kind returns the task variant, "" for a mission without a task.
func (m *Mission) Kind() MissionKind {
	if m == nil || m.Task == nil {
		return ""
	}
	return m.Task.Kind()
}

// Advance moves the mission forward one cycle and reports completion.
func (m *Mission) Advance() bool {
	if m.Progress < m.Duration {
		m.Progress++
	}
	return m.Done()
}

// Done reports whether the full duration has elapsed.
func (m *Mission) Done() bool {
	return m.Progress >= m.Duration
}

// Remaining is how many cycles are left.
func (m *Mission) Remaining() uint32 {
	if m.Progress >= m.Duration {
		return 0
	}
	return m.Duration - m.Progress
}

// runMission advances the mission held in *slot. On completion the slot is
// cleared before the effect is applied, so the target sees itself mission-free.
func runMission(slot **Mission, target missionTarget) *MissionOutcome {
	m := *slot
	if m == nil || !m.Advance() {
		return nil
	}
	*slot = nil
	out := &MissionOutcome{Kind: m.Kind(), TargetID: m.TargetID, StaffReleased: m.StaffAssigned}
	if m.Task != nil {
		m.Task.complete(target)
	}
	return out
}
