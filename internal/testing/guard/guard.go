package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SPINMILL_TEST_MODE") == "" {
			_ = os.Setenv("SPINMILL_TEST_MODE", "1")
		}
	})
}
