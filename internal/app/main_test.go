package service_test

import (
	"testing"

	"github.com/okian/recupero/pkg/logger"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	goleak.VerifyTestMain(m)
}
