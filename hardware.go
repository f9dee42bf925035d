package workerpool

import "runtime"

// HardwareConcurrency returns the number of CPUs usable by the process.
// An unknown count is reported as 1.
func HardwareConcurrency() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// RuntimeConcurrency picks a worker count for total units of work when each
// worker should get at least minPerWorker units: the smaller of the hardware
// hint and ceil(total/minPerWorker), and never less than 1.
func RuntimeConcurrency(total, minPerWorker int) int {
	if minPerWorker <= 0 {
		minPerWorker = 1
	}
	n := (total + minPerWorker - 1) / minPerWorker
	if hw := HardwareConcurrency(); n > hw {
		n = hw
	}
	if n < 1 {
		n = 1
	}
	return n
}
