package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"itam-backend/internal/apperr"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const AvatarSize = 256

var avatarExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Avatars validates and normalises profile pictures before handing them to a Store.
type Avatars struct {
	store   Store
	maxSize int64
}

func NewAvatars(store Store, maxSize int64) *Avatars {
	return &Avatars{store: store, maxSize: maxSize}
}

func (a *Avatars) MaxSize() int64 { return a.maxSize }

// Save checks the upload, fits it into a square and stores it as JPEG.
func (a *Avatars) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !avatarExtensions[ext] {
		return "", apperr.New(apperr.InvalidInput, "avatar must be a .jpg, .jpeg or .png file")
	}

	raw, err := io.ReadAll(io.LimitReader(r, a.maxSize+1))
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "could not read avatar", err)
	}
	if int64(len(raw)) > a.maxSize {
		return "", apperr.Newf(apperr.InvalidInput, "avatar exceeds %d bytes", a.maxSize)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "avatar is not a valid image", err)
	}

	var out bytes.Buffer
	fitted := imaging.Fit(img, AvatarSize, AvatarSize, imaging.Lanczos)
	if err := imaging.Encode(&out, fitted, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	key := "avatars/" + uuid.NewString() + ".jpg"
	size := int64(out.Len())
	url, err := a.store.Put(ctx, key, &out, size, "image/jpeg")
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "store avatar", err)
	}
	return url, nil
}
