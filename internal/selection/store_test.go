package selection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDrop(t *testing.T) {
	store := NewStore(0)
	session := &Session{ID: uuid.New(), Phase: PhaseConsigner, CreatedAt: time.Now()}

	store.Put(session)

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	store.Drop(session.ID)
	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestStore_ExpiredSessionIsGone(t *testing.T) {
	store := NewStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	session := &Session{ID: uuid.New(), Phase: PhaseConsigner, CreatedAt: now}
	store.Put(session)

	now = now.Add(2 * time.Minute)
	_, err := store.Get(session.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestStore_IsolatesSessions(t *testing.T) {
	store := NewStore(0)
	a := &Session{ID: uuid.New(), Phase: PhaseConsigner, CreatedAt: time.Now()}
	b := &Session{ID: uuid.New(), Phase: PhaseConsignee, CreatedAt: time.Now()}

	store.Put(a)
	store.Put(b)

	gotA, err := store.Get(a.ID)
	require.NoError(t, err)
	gotB, err := store.Get(b.ID)
	require.NoError(t, err)

	assert.Equal(t, PhaseConsigner, gotA.Phase)
	assert.Equal(t, PhaseConsignee, gotB.Phase)
}
