package blog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// attachAsset validates the payload size against the ceiling and uploads it.
// The size check runs before any network call; a rejected payload never
// reaches the blob store. Upload failures surface as ErrUploadFailed, and a
// timed-out upload is treated as failed, never as partially succeeded.
func (s *service) attachAsset(ctx context.Context, up *Upload, limit int64) (*Asset, error) {
	if up.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, up.Size(), limit)
	}

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	asset, err := s.blobs.Upload(ctx, bytes.NewReader(up.Data), UploadParams{
		FileName: up.FileName,
		MimeType: up.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return asset, nil
}

// replaceAsset swaps an existing attachment for a new payload: size check,
// delete the old asset, upload the new one. Deleting first bounds storage
// cost; the accepted risk is that a failed upload leaves the record pointing
// at the deleted old asset until the caller retries the whole replace.
func (s *service) replaceAsset(ctx context.Context, old Attachment, up *Upload, limit int64) (*Asset, error) {
	if up.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, up.Size(), limit)
	}

	if old.Present() {
		if err := s.detachAsset(ctx, old.AssetID); err != nil {
			return nil, err
		}
	}

	return s.attachAsset(ctx, up, limit)
}

// detachAsset deletes an asset from the blob store. An already-gone asset is
// tolerated; any other failure aborts the surrounding operation so record
// metadata is never dropped while its asset might still exist.
func (s *service) detachAsset(ctx context.Context, assetID string) error {
	if assetID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	if err := s.blobs.Delete(ctx, assetID); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			s.logger.Debug("asset already gone on delete", "asset_id", assetID)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrAssetDeleteFailed, err)
	}
	return nil
}

// adjustPostCount applies a read-modify-write update to the owner's derived
// post counter. Concurrent create/delete for the same account can make the
// counter drift; that is accepted for this derived field.
func (s *service) adjustPostCount(ctx context.Context, accountID uuid.UUID, delta int) error {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	account.PostCount += delta
	if account.PostCount < 0 {
		account.PostCount = 0
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}
	return nil
}
