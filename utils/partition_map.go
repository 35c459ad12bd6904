package utils

import "fmt"

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets with a maximum imbalance of one item.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end (exclusive) index of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		panic(fmt.Errorf("parallel degree must be positive, have %d", ParallelDegree))
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// GetBucket returns the bucket holding index k, or -1 if k is out of range.
func (pm *PartitionMap) GetBucket(k int) (bucketNum int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1
	}
	// Initial guess, off by at most one for a balanced split
	bucketNum = int(float64(pm.ParallelDegree*k) / float64(pm.MaxIndex))
	for !(pm.Partitions[bucketNum][0] <= k && pm.Partitions[bucketNum][1] > k) {
		if pm.Partitions[bucketNum][0] > k {
			bucketNum--
		} else {
			bucketNum++
		}
	}
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) int {
	return pm.Partitions[bn][1] - pm.Partitions[bn][0]
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		Npart            = pm.MaxIndex / pm.ParallelDegree
		remainder        = pm.MaxIndex % pm.ParallelDegree
		startAdd, endAdd int
	)
	if remainder != 0 { // spread the remainder over the first buckets
		if threadNum+1 > remainder {
			startAdd = remainder
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// Owners expands the map into a per-index owner list, the EToP layout used by
// the mesh.
func (pm *PartitionMap) Owners() (owner []int) {
	owner = make([]int, pm.MaxIndex)
	for bn, b := range pm.Partitions {
		for k := b[0]; k < b[1]; k++ {
			owner[k] = bn
		}
	}
	return
}
