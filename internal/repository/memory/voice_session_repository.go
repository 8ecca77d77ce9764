package memory

import (
	"time"

	"ai-chat-be/pkg/voice"

	"github.com/patrickmn/go-cache"
)

// VoiceSessionRepository keeps in-flight voice interaction state in memory.
// Sessions are transient by nature; an abandoned session simply expires.
type VoiceSessionRepository struct {
	cache *cache.Cache
}

func NewVoiceSessionRepository() *VoiceSessionRepository {
	// Sessions expire after 30 minutes of inactivity, purged every 10 minutes
	c := cache.New(30*time.Minute, 10*time.Minute)
	return &VoiceSessionRepository{
		cache: c,
	}
}

func (r *VoiceSessionRepository) Save(sessionID string, session *voice.Session) {
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
}

func (r *VoiceSessionRepository) Get(sessionID string) (*voice.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*voice.Session), true
	}
	return nil, false
}

func (r *VoiceSessionRepository) GetOrCreate(sessionID string) *voice.Session {
	if s, found := r.Get(sessionID); found {
		return s
	}
	s := voice.NewSession()
	r.Save(sessionID, s)
	return s
}

func (r *VoiceSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
