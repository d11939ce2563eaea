package project

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerSet_ReplaceSwapsContents(t *testing.T) {
	set := NewTriggerSet(Trigger{Kind: "cron", Spec: "@daily"})

	set.Replace([]Trigger{
		{Kind: "scm-poll", Spec: "H/5 * * * *"},
		{Kind: "cron", Spec: "H 4 * * *"},
	})

	assert.Equal(t, []Trigger{
		{Kind: "scm-poll", Spec: "H/5 * * * *"},
		{Kind: "cron", Spec: "H 4 * * *"},
	}, set.Snapshot())
}

func TestTriggerSet_ReplaceWithEmptyClears(t *testing.T) {
	set := NewTriggerSet(Trigger{Kind: "cron", Spec: "@daily"})
	set.Replace(nil)
	assert.True(t, set.Empty())
	assert.Nil(t, set.Snapshot())
}

func TestTriggerSet_SnapshotIsACopy(t *testing.T) {
	set := NewTriggerSet(Trigger{Kind: "cron", Spec: "@daily"})
	snap := set.Snapshot()
	snap[0].Spec = "mutated"
	assert.Equal(t, "@daily", set.Snapshot()[0].Spec)
}

func TestTriggerSet_ConcurrentReadersAndReplace(t *testing.T) {
	set := NewTriggerSet(Trigger{Kind: "cron", Spec: "@daily"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = set.Snapshot()
				_ = set.Len()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		set.Replace([]Trigger{{Kind: "cron", Spec: "@hourly"}})
	}
	wg.Wait()

	assert.Equal(t, 1, set.Len())
}

func TestAxisList_Combinations(t *testing.T) {
	tests := []struct {
		name     string
		axes     AxisList
		expected []string
	}{
		{
			name:     "empty list",
			axes:     nil,
			expected: nil,
		},
		{
			name:     "single axis",
			axes:     AxisList{{Name: "os", Values: []string{"linux", "darwin"}}},
			expected: []string{"os=linux", "os=darwin"},
		},
		{
			name: "two axes",
			axes: AxisList{
				{Name: "os", Values: []string{"linux", "darwin"}},
				{Name: "arch", Values: []string{"amd64", "arm64"}},
			},
			expected: []string{
				"os=linux,arch=amd64",
				"os=linux,arch=arm64",
				"os=darwin,arch=amd64",
				"os=darwin,arch=arm64",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.axes.Combinations())
		})
	}
}

func TestRebuildConfigurations_NonMatrixIsNoop(t *testing.T) {
	p := New("plain", KindFreestyle)
	p.Axes = AxisList{{Name: "os", Values: []string{"linux"}}}
	p.RebuildConfigurations()
	assert.Nil(t, p.Configurations)
}

func TestRebuildConfigurations_Matrix(t *testing.T) {
	p := New("matrix", KindMatrix)
	p.Axes = AxisList{{Name: "os", Values: []string{"linux", "darwin"}}}
	p.RebuildConfigurations()
	assert.Equal(t, []string{"os=linux", "os=darwin"}, p.Configurations)
}
