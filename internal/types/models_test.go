package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringAcceptsBothForms(t *testing.T) {
	var rec FeedbackRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1757322288349, "companyId": "acme"}`), &rec))
	assert.Equal(t, FlexString("1757322288349"), rec.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "1757322711026", "companyId": "acme"}`), &rec))
	assert.Equal(t, FlexString("1757322711026"), rec.ID)
}

func TestFlexFloatAcceptsBothForms(t *testing.T) {
	var ans SurveyAnswer
	require.NoError(t, json.Unmarshal([]byte(`{"question":"Q1","answer":4,"questionId":"q1"}`), &ans))
	assert.Equal(t, FlexFloat(4), ans.Answer)

	require.NoError(t, json.Unmarshal([]byte(`{"question":"Q1","answer":"2.5","questionId":"q1"}`), &ans))
	assert.Equal(t, FlexFloat(2.5), ans.Answer)

	assert.Error(t, json.Unmarshal([]byte(`{"answer":"not a number"}`), &ans))
}

func TestFlexBoolAcceptsBothForms(t *testing.T) {
	var v FlexBool
	require.NoError(t, json.Unmarshal([]byte(`true`), &v))
	assert.True(t, bool(v))

	require.NoError(t, json.Unmarshal([]byte(`"false"`), &v))
	assert.False(t, bool(v))

	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &v))
}
