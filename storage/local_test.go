package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	fileID := uuid.New()
	storagePath, err := store.Upload(t.Context(), fileID, "rate confirmation.pdf", strings.NewReader("evidence bytes"))
	require.NoError(t, err)
	assert.Contains(t, storagePath, "evidence/")
	assert.Contains(t, storagePath, fileID.String())
	assert.Contains(t, storagePath, "rate_confirmation.pdf")

	reader, err := store.Download(t.Context(), storagePath)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "evidence bytes", string(data))

	require.NoError(t, store.Delete(t.Context(), storagePath))
	_, err = store.Download(t.Context(), storagePath)
	assert.Error(t, err)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(t.Context(), storagePath))
}

func TestEvidenceContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", evidenceContentType("invoice.pdf"))
	assert.Equal(t, "image/jpeg", evidenceContentType("photo.jpeg"))
	assert.Equal(t, "message/rfc822", evidenceContentType("chaser.eml"))
	assert.Equal(t, "application/octet-stream", evidenceContentType("export.dat"))
}
