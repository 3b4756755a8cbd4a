package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
	"github.com/KirkDiggler/brp-sheet/internal/records"
	"github.com/KirkDiggler/brp-sheet/internal/repositories/characters"
	"github.com/KirkDiggler/brp-sheet/internal/testutils"
)

func record(t *testing.T, id, name string) string {
	t.Helper()
	data, err := records.DefaultRegistry().Marshal(testutils.CreateTestCharacter(t, id, "owner-1", "", name))
	require.NoError(t, err)
	return string(data)
}

func TestList(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectScan(0, keyPattern, 100).SetVal([]string{"character:ada", "character:gone", "character:bad"}, 0)
	mock.ExpectGet("character:ada").SetVal(record(t, "ada", "Ada"))
	mock.ExpectGet("character:gone").RedisNil()
	mock.ExpectGet("character:bad").SetVal(`{"version":1}`)

	out := &bytes.Buffer{}
	require.NoError(t, listCmd(context.Background(), client, out))
	assert.Contains(t, out.String(), "ada: ")
	assert.Contains(t, out.String(), "bad: 13 bytes, invalid")
	assert.NotContains(t, out.String(), "gone")
	assert.Contains(t, out.String(), "found 2 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheck(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectScan(0, keyPattern, 100).SetVal([]string{"character:ada", "character:bad"}, 0)
	mock.ExpectGet("character:ada").SetVal(record(t, "ada", "Ada"))
	mock.ExpectGet("character:bad").SetVal(`not json`)

	out := &bytes.Buffer{}
	err := checkCmd(context.Background(), client, out)
	assert.True(t, brperr.IsValidation(err))
	assert.Contains(t, out.String(), "character:bad")
	assert.NotContains(t, out.String(), "character:ada")
}

func TestCopyRecords(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	mock.ExpectScan(0, keyPattern, 100).SetVal([]string{"character:ada", "character:bea", "character:bad"}, 0)
	mock.ExpectGet("character:ada").SetVal(record(t, "ada", "Ada"))
	mock.ExpectGet("character:bea").SetVal(record(t, "bea", "Bea"))
	mock.ExpectGet("character:bad").SetVal(`{}`)

	dest := characters.NewInMemoryRepository(nil)
	require.NoError(t, dest.Create(ctx, testutils.CreateTestCharacter(t, "bea", "owner-1", "", "Bea")))

	out := &bytes.Buffer{}
	require.NoError(t, copyRecords(ctx, client, dest, records.DefaultRegistry(), out))
	assert.Contains(t, out.String(), "copied 1, skipped 2")

	got, err := dest.Get(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Base().Bio.Name)
}
