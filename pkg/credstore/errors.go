package credstore

import "errors"

var (
	// ErrStorePath indicates the file store path could not be resolved or created
	ErrStorePath = errors.New("credstore.store_path_unavailable")

	// ErrCorruptStore indicates stored credentials could not be decoded
	ErrCorruptStore = errors.New("credstore.corrupt_store")
)
