package heredity

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const googleStoragePrefix = "gs://"

// IsGoogleStoragePath reports whether path names an object in a Google
// Storage bucket.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

// SplitGoogleStoragePath splits gs://bucket/object into its bucket and object
// names.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, googleStoragePrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into bucket and object, but got %d parts: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenPath opens a local file or, for gs:// paths, a Google Storage object. If
// client is nil and a gs:// path is given, a client is created with default
// credentials and closed along with the returned reader. Compressed content is
// decompressed transparently.
func OpenPath(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	var rc io.ReadCloser

	if IsGoogleStoragePath(path) {
		bucketName, objectName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, err
		}

		ownClient := client == nil
		if ownClient {
			client, err = storage.NewClient(ctx)
			if err != nil {
				return nil, pfx.Err(err)
			}
		}

		rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
		if err != nil {
			if ownClient {
				client.Close()
			}
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		rc = rdr
		if ownClient {
			rc = &clientReadCloser{ReadCloser: rdr, client: client}
		}
	} else {
		f, err := os.Open(ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}
		rc = f
	}

	out, _, err := MaybeDecompressReadCloser(rc)
	if err != nil {
		rc.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return out, nil
}

// clientReadCloser closes the storage client it was opened with.
type clientReadCloser struct {
	io.ReadCloser
	client *storage.Client
}

func (c *clientReadCloser) Close() error {
	err := c.ReadCloser.Close()
	if cerr := c.client.Close(); err == nil {
		err = cerr
	}
	return err
}
