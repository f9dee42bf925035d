//go:build !linux

package workerpool

import "errors"

// PinToCPU is only implemented on linux.
func PinToCPU(cpu int) error {
	return errors.New("workerpool: CPU pinning is not supported on this platform")
}
