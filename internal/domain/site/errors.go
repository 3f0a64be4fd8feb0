package site

import "errors"

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrNotOwner     = errors.New("only the owner can change this site")
)
