package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
)

func TestSnapshotClassify(t *testing.T) {
	snapshot := NewSnapshot(entity.Categories{
		Productive:   []string{"github.com", "notion.so"},
		Unproductive: []string{"youtube.com"},
	})

	assert.Equal(t, entity.CategoryProductive, snapshot.Classify("github.com"))
	assert.Equal(t, entity.CategoryUnproductive, snapshot.Classify("youtube.com"))
	assert.Equal(t, entity.CategoryNeutral, snapshot.Classify("example.com"))
}

func TestAddDomainMovesBetweenCategories(t *testing.T) {
	sets := entity.Categories{
		Productive:   []string{"github.com"},
		Unproductive: []string{"youtube.com"},
	}

	next, err := AddDomain(sets, "youtube.com", entity.CategoryProductive)
	require.NoError(t, err)

	assert.Contains(t, next.Productive, "youtube.com")
	assert.NotContains(t, next.Unproductive, "youtube.com")

	// исходное состояние не трогаем
	assert.Contains(t, sets.Unproductive, "youtube.com")
}

func TestAddDomainKeepsSetsDisjoint(t *testing.T) {
	sets := entity.Categories{}

	var err error
	sets, err = AddDomain(sets, "reddit.com", entity.CategoryUnproductive)
	require.NoError(t, err)
	sets, err = AddDomain(sets, "reddit.com", entity.CategoryProductive)
	require.NoError(t, err)
	sets, err = AddDomain(sets, "reddit.com", entity.CategoryUnproductive)
	require.NoError(t, err)

	assert.Equal(t, []string{"reddit.com"}, sets.Unproductive)
	assert.Empty(t, sets.Productive)
}

func TestAddDomainRejectsMalformed(t *testing.T) {
	sets := entity.Categories{}

	for _, domain := range []string{"", "nodot", "two words.com", "tab\t.com"} {
		_, err := AddDomain(sets, domain, entity.CategoryProductive)
		assert.ErrorIs(t, err, ErrInvalidDomain, "domain %q", domain)
	}

	_, err := AddDomain(sets, "example.com", entity.CategoryNeutral)
	assert.Error(t, err)
}

func TestRemoveDomainWrongCategoryIsNoop(t *testing.T) {
	sets := entity.Categories{
		Productive:   []string{"github.com"},
		Unproductive: []string{"youtube.com"},
	}

	next := RemoveDomain(sets, "github.com", entity.CategoryUnproductive)
	assert.Equal(t, []string{"github.com"}, next.Productive)
	assert.Equal(t, []string{"youtube.com"}, next.Unproductive)

	next = RemoveDomain(next, "github.com", entity.CategoryProductive)
	assert.Empty(t, next.Productive)
}

func TestDefaultCategoriesAreValidAndDisjoint(t *testing.T) {
	defaults := DefaultCategories()

	seen := make(map[string]struct{})
	for _, d := range append(append([]string(nil), defaults.Productive...), defaults.Unproductive...) {
		require.NoError(t, ValidateDomain(d))
		_, dup := seen[d]
		require.False(t, dup, "domain %q appears twice", d)
		seen[d] = struct{}{}
	}
}
