package dialog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockForIsStablePerConversation(t *testing.T) {
	s := &Service{}
	assert.Same(t, s.lockFor("conv-1"), s.lockFor("conv-1"))
	assert.Same(t, s.lockFor(""), s.lockFor(""))
}

func TestLockForStaysBounded(t *testing.T) {
	s := &Service{}

	seen := make(map[*sync.Mutex]struct{})
	for i := 0; i < 10*lockStripes; i++ {
		seen[s.lockFor(fmt.Sprintf("conv-%d", i))] = struct{}{}
	}
	assert.LessOrEqual(t, len(seen), lockStripes)
}
