package webhook

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayment_NestedPayload(t *testing.T) {
	data := json.RawMessage(`{
		"id": "pay_1",
		"amount": 2500,
		"amount_after_fees": 2400,
		"fee_amount": 100,
		"company": {"id": "biz_A"},
		"user": {"id": "user_1", "username": "alice"},
		"checkout": {"metadata": {
			"experienceId": "exp_1",
			"experienceName": "Main",
			"tipperId": "user_1",
			"tipperName": "Alice",
			"tip_amount": "5"
		}}
	}`)

	p, err := ParsePayment(data)

	require.NoError(t, err)
	assert.Equal(t, "pay_1", p.ID)
	assert.Equal(t, "biz_A", p.TenantID)
	assert.Equal(t, "user_1", p.UserID)
	assert.Equal(t, "alice", p.Username)
	require.NotNil(t, p.Amounts.Gross)
	assert.Equal(t, "2500", p.Amounts.Gross.String())
	assert.Equal(t, "2400", p.Amounts.AfterFees.String())
	assert.Equal(t, "100", p.Amounts.Fee.String())
	assert.Equal(t, "exp_1", p.Metadata.ExperienceID)
	assert.Equal(t, "Main", p.Metadata.ExperienceName)
	assert.Equal(t, "Alice", p.Metadata.TipperName)
	require.NotNil(t, p.Metadata.TipAmount)
	assert.Equal(t, "5", p.Metadata.TipAmount.String())
}

func TestParsePayment_FlatPayload(t *testing.T) {
	data := json.RawMessage(`{
		"id": "pay_2",
		"total": 12.5,
		"company_id": "biz_B",
		"user_id": "user_2",
		"metadata": {"experience_id": "exp_2"}
	}`)

	p, err := ParsePayment(data)

	require.NoError(t, err)
	assert.Equal(t, "biz_B", p.TenantID)
	assert.Equal(t, "user_2", p.UserID)
	assert.Equal(t, AnonymousUsername, p.Username)
	assert.Equal(t, "12.5", p.Amounts.Gross.String())
	assert.Nil(t, p.Amounts.AfterFees)
	assert.Nil(t, p.Amounts.Fee)
	assert.Equal(t, "exp_2", p.Metadata.ExperienceID)
	assert.Nil(t, p.Metadata.TipAmount)
}

func TestParsePayment_MissingFieldsAreEmpty(t *testing.T) {
	p, err := ParsePayment(json.RawMessage(`{"id":"pay_3","amount":"abc"}`))

	require.NoError(t, err)
	assert.Empty(t, p.TenantID)
	assert.Empty(t, p.UserID)
	assert.Nil(t, p.Amounts.Gross)
}

func TestParsePayment_Malformed(t *testing.T) {
	for _, data := range []string{`"pay_1"`, `null`, `[]`} {
		_, err := ParsePayment(json.RawMessage(data))
		assert.True(t, errors.Is(err, ErrMalformedPayload), "data %s", data)
	}
}
