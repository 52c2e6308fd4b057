package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deepTaskBody(levels int) string {
	var b strings.Builder
	for i := 0; i < levels; i++ {
		b.WriteString(`{"title":"a","subtasks":[`)
	}
	b.WriteString(`{"title":"leaf"}`)
	for i := 0; i < levels; i++ {
		b.WriteString(`]}`)
	}
	return b.String()
}

func TestTaskCreationPayload_StopsDecodingBelowMaxDepth(t *testing.T) {
	var p TaskCreationPayload
	require.NoError(t, json.Unmarshal([]byte(deepTaskBody(MaxTaskNestingDepth+2)), &p))

	node := &p
	for depth := 0; depth < MaxTaskNestingDepth; depth++ {
		assert.False(t, node.TooDeep, "depth %d", depth)
		require.Len(t, node.Subtasks, 1, "depth %d", depth)
		node = &node.Subtasks[0]
	}
	assert.True(t, node.TooDeep)
	assert.Nil(t, node.Subtasks)
}

func TestTaskCreationPayload_MaxDepthLeafIsNotTooDeep(t *testing.T) {
	var p TaskCreationPayload
	require.NoError(t, json.Unmarshal([]byte(deepTaskBody(MaxTaskNestingDepth)), &p))

	node := &p
	for depth := 0; depth < MaxTaskNestingDepth; depth++ {
		node = &node.Subtasks[0]
	}
	assert.Equal(t, TaskTitle("leaf"), node.Title)
	assert.False(t, node.TooDeep)
}

func TestTaskCreationPayload_DeepBodyDecodesInLinearTime(t *testing.T) {
	body := []byte(deepTaskBody(4000))

	start := time.Now()
	var p TaskCreationPayload
	require.NoError(t, json.Unmarshal(body, &p))

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, p.Subtasks[0].Subtasks[0].Subtasks[0].TooDeep)
}

func TestTaskCreationPayload_LenientFields(t *testing.T) {
	var p TaskCreationPayload
	body := `{"title": 5, "skills": "all", "parentTaskId": "p1", "subtasks": ["x", {"title": "ok", "parentTaskId": "ignored"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Equal(t, TaskTitle(""), p.Title)
	assert.Empty(t, p.Skills)
	assert.Equal(t, "p1", p.ParentTaskID)
	require.Len(t, p.Subtasks, 2)
	assert.True(t, p.Subtasks[0].Invalid)
	assert.Equal(t, TaskTitle("ok"), p.Subtasks[1].Title)
	assert.Empty(t, p.Subtasks[1].ParentTaskID)
}

func TestSkillRef_IntegralNumbers(t *testing.T) {
	tests := []struct {
		raw     string
		id      int
		invalid string
	}{
		{raw: `2`, id: 2},
		{raw: `2.0`, id: 2},
		{raw: `1e0`, id: 1},
		{raw: `-3`, id: -3},
		{raw: `1.5`, invalid: "1.5"},
		{raw: `1e40`, invalid: "1e40"},
		{raw: `true`, invalid: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var ref SkillRef
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ref))
			if tt.invalid != "" {
				assert.Nil(t, ref.ID)
				assert.Equal(t, tt.invalid, ref.Invalid)
				return
			}
			require.NotNil(t, ref.ID)
			assert.Equal(t, tt.id, *ref.ID)
			assert.Empty(t, ref.Invalid)
		})
	}
}
