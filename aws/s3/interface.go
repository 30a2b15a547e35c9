//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package s3

type Lister interface {
	// List returns the keys found under key, which is relative to the client's prefix.
	List(key string) (keys []string, err error)
}

// ListerFactory returns a Lister for the given bucket.
type ListerFactory func(bucket, region, prefix string) Lister
