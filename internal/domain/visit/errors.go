package visit

import "errors"

// ErrVisitNotRecorded wraps any failure that aborted a visit transaction
// other than a missing user or site
var ErrVisitNotRecorded = errors.New("could not record visit")
