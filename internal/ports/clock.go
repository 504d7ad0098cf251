package ports

import "time"

// Clock abstracts the current local time so archive names are deterministic in tests.
type Clock interface {
	Now() time.Time
}
