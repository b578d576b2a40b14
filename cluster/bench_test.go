package cluster_test

import (
	"testing"

	"github.com/katalvlaran/agora/cluster"
)

func BenchmarkCluster_Scattered(b *testing.B) {
	pts := scattered()
	id := ids(len(pts))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cluster.Cluster(id, pts); err != nil {
			b.Fatal(err)
		}
	}
}
