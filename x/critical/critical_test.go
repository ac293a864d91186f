package critical

import (
	"sync"
	"testing"
)

func TestDoSerialisesCompositeWrites(t *testing.T) {
	var a, b int
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				Do(func() {
					a++
					b++
				})
			}
		}()
	}
	wg.Wait()
	var ga, gb int
	Do(func() { ga, gb = a, b })
	if ga != 8000 || gb != 8000 {
		t.Fatalf("torn or lost update: a=%d b=%d", ga, gb)
	}
}
