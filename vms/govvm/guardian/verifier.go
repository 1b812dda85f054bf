// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guardian

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/multigov/utils/hashing"
)

var (
	ErrGuardianSetExpired                = errors.New("guardian set expired")
	ErrNoQuorum                          = errors.New("no quorum")
	ErrInvalidGuardianIndexNonIncreasing = errors.New("guardian index non-increasing")
	ErrInvalidGuardianIndexOutOfRange    = errors.New("guardian index out of range")
	ErrInvalidGuardianKeyRecovery        = errors.New("guardian key recovery failed")
	ErrInvalidSignature                  = errors.New("invalid signature")
)

// Verify checks that [sigs] carry a quorum of valid signatures from [set]
// over [digest] at unix time [now].
//
// Signatures must be in strictly increasing guardian index order, so no
// guardian is counted twice. Index checks run over the whole batch before
// any key recovery; recovery then runs concurrently and the error of the
// lowest failing position is returned.
func Verify(set *Set, sigs []Signature, digest [hashing.HashLen]byte, now uint64) error {
	if !set.IsActive(now) {
		return fmt.Errorf("%w: set %d expired at %d", ErrGuardianSetExpired, set.Index, set.ExpirationTime)
	}
	if quorum := Quorum(len(set.Keys)); len(sigs) < quorum {
		return fmt.Errorf("%w: %d signatures < %d", ErrNoQuorum, len(sigs), quorum)
	}

	for i, sig := range sigs {
		index := sig.GuardianIndex()
		if i > 0 && index <= sigs[i-1].GuardianIndex() {
			return fmt.Errorf("%w: %d after %d", ErrInvalidGuardianIndexNonIncreasing, index, sigs[i-1].GuardianIndex())
		}
		if int(index) >= len(set.Keys) {
			return fmt.Errorf("%w: %d >= %d", ErrInvalidGuardianIndexOutOfRange, index, len(set.Keys))
		}
	}

	errs := make([]error, len(sigs))
	var eg errgroup.Group
	for i, sig := range sigs {
		eg.Go(func() error {
			index := sig.GuardianIndex()
			addr, err := sig.recover(digest)
			switch {
			case err != nil:
				errs[i] = fmt.Errorf("%w: guardian %d", err, index)
			case addr != set.Keys[index]:
				errs[i] = fmt.Errorf("%w: guardian %d recovered %s", ErrInvalidSignature, index, addr)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return firstNonNil(errs)
}

func firstNonNil(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
