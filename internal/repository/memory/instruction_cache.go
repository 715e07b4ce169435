package memory

import (
	"time"

	"ai-assistant-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// InstructionCache keeps each user's active ongoing instructions in memory so
// the proactive matcher does not hit the database for every incoming event.
// Entries expire after a minute; a rule change simply invalidates the user.
type InstructionCache struct {
	cache *cache.Cache
}

func NewInstructionCache() *InstructionCache {
	c := cache.New(1*time.Minute, 5*time.Minute)
	return &InstructionCache{
		cache: c,
	}
}

func (r *InstructionCache) Save(userId string, instructions []*entity.OngoingInstruction) {
	r.cache.Set(userId, instructions, cache.DefaultExpiration)
}

func (r *InstructionCache) Get(userId string) ([]*entity.OngoingInstruction, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.([]*entity.OngoingInstruction), true
	}
	return nil, false
}

func (r *InstructionCache) Invalidate(userId string) {
	r.cache.Delete(userId)
}
