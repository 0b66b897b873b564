package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEntitiesLastOccurrenceWins(t *testing.T) {
	st := NewState()
	st.MergeEntities([]Entity{
		{Type: SlotLocation, Value: "London"},
		{Type: SlotLocation, Value: "Exeter"},
	})
	assert.Equal(t, "Exeter", st.Slots[SlotLocation])
}

func TestMergeEntitiesDropsUnknownTypes(t *testing.T) {
	st := NewState()
	st.MergeEntities([]Entity{
		{Type: "builtin.number", Value: "42"},
		{Type: SlotCondition, Value: "hotter"},
	})
	assert.Len(t, st.Slots, 1)
	assert.True(t, st.HasSlot(SlotCondition))
}

func TestMergeEntitiesRetainsExistingSlots(t *testing.T) {
	st := NewState()
	st.MergeEntities([]Entity{{Type: SlotLocation, Value: "London"}})
	st.MergeEntities([]Entity{{Type: SlotCondition, Value: "colder"}})

	assert.Equal(t, "London", st.Slots[SlotLocation])
	assert.Equal(t, "colder", st.Slots[SlotCondition])
}

func TestCloneIsIndependent(t *testing.T) {
	st := NewState()
	st.MergeEntities([]Entity{{Type: SlotLocation, Value: "London"}})
	st.push(Frame{Flow: FlowGetLocation, Step: 2})

	c := st.Clone()
	c.Slots[SlotLocation] = "Cardiff"
	c.Stack[0].Step = 7

	assert.Equal(t, "London", st.Slots[SlotLocation])
	assert.Equal(t, 2, st.Stack[0].Step)
}
