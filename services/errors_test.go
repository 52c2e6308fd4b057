package services

import (
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lohszeying/api-task-assignment/models"
)

func TestMsgDepthExceededNamesEnforcedMaximum(t *testing.T) {
	assert.Equal(t, "Maximum task nesting depth of "+strconv.Itoa(models.MaxTaskNestingDepth)+" levels exceeded.", MsgDepthExceeded)
}

func TestAsServiceError_FindsWrappedError(t *testing.T) {
	err := errors.Wrap(NewDependencyError(MsgInferenceFailed, errors.New("timeout")), "create tree")

	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, KindDependency, se.Kind)
	assert.Equal(t, 500, se.Status)

	_, ok = AsServiceError(errors.New("plain"))
	assert.False(t, ok)
}
