package catalog

import "errors"

var (
	// ErrPrecoOuAno means the listing has no positive price or is missing a year.
	ErrPrecoOuAno = errors.New("price or years missing")

	// ErrAssetRejected means a downloaded file is not an allowed bitmap type.
	ErrAssetRejected = errors.New("asset content type not allowed")
)
