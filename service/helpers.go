package service

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emzola/bookreviews/repository"
)

// coverKey returns a random object key for a book cover with the given extension.
func coverKey(extension string) (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}
	name := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes))
	return "bookcovers/" + name + extension, nil
}

// translate maps repository errors onto the service errors of the same meaning.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, repository.ErrEditConflict):
		return ErrEditConflict
	case errors.Is(err, repository.ErrDuplicateRecord):
		return ErrDuplicateRecord
	default:
		return err
	}
}

// background launches a goroutine tracked by the service WaitGroup and
// recovers from panics inside it.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
