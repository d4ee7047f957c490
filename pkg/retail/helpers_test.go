package retail

import (
	"io"
	"regexp"

	"github.com/sirupsen/logrus"
)

func mustRe(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
