package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/StrixzIV/adv-compro-finals/storage"

	"go.uber.org/zap"
)

type Uploader struct {
	Store storage.ObjectStore
}

func NewUploader(store storage.ObjectStore) *Uploader {
	return &Uploader{Store: store}
}

// Do pushes the original and (when present) the thumbnail to object
// storage as a concurrent fan-out so neither transfer stalls the request
// handler. If either transfer fails the keys that did land are removed
// again before the error is returned
func (u *Uploader) Do(ctx context.Context, key, thumbKey string, original, thumb []byte, contentType string) error {
	jobs := 1
	if thumb != nil {
		jobs = 2
	}

	var wg sync.WaitGroup
	wg.Add(jobs)

	errs := make(chan error, jobs)

	var mu sync.Mutex
	uploadedKeys := []string{}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	go func() {
		defer wg.Done()
		zap.L().Debug("Starting upload_original subprocess", zap.String("key", key))

		err := u.Store.Put(ctx, key, bytes.NewReader(original), int64(len(original)), contentType)
		if err != nil {
			errs <- fmt.Errorf("failed to upload original, %w", err)
			return
		}

		mu.Lock()
		uploadedKeys = append(uploadedKeys, key)
		mu.Unlock()

		errs <- nil
	}()

	if thumb != nil {
		go func() {
			defer wg.Done()
			zap.L().Debug("Starting upload_thumbnail subprocess", zap.String("key", thumbKey))

			err := u.Store.Put(ctx, thumbKey, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg")
			if err != nil {
				errs <- fmt.Errorf("failed to upload thumbnail, %w", err)
				return
			}

			mu.Lock()
			uploadedKeys = append(uploadedKeys, thumbKey)
			mu.Unlock()

			errs <- nil
		}()
	}

	for range jobs {
		if err := <-errs; err != nil {
			cancel()
			wg.Wait()

			for _, k := range uploadedKeys {
				if rmErr := u.Store.Remove(context.Background(), k); rmErr != nil {
					zap.L().Error("Failed to cleanup after failed upload", zap.String("key", k), zap.Error(rmErr))
				} else {
					zap.L().Debug("Cleaned up after failed upload", zap.String("key", k))
				}
			}

			return err
		}
	}

	wg.Wait()

	return nil
}
