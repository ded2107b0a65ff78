// Copyright 2026 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fs

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"cuelang.org/fstruct/internal/fsdebug"
	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// SetLogger sets the logger to which unification steps are traced at debug
// level. A nil logger restores the default: tracing to a development logger
// on stderr if FSTRUCT_DEBUG=logunify=1 is set, and no tracing otherwise.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

var configOnce = sync.OnceValue(func() *fsdebug.Config {
	if err := fsdebug.Init(); err != nil {
		zap.L().Warn("ignoring debug flags", zap.Error(err))
	}
	return &fsdebug.Flags
})

func config() *fsdebug.Config {
	return configOnce()
}

var devLogger = sync.OnceValue(func() *zap.Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
})

// traceLogger returns the logger for tracing unification, or nil if tracing
// is disabled.
func traceLogger() *zap.SugaredLogger {
	if l := logger.Load(); l != nil {
		return l.Sugar()
	}
	if config().LogUnify == 0 {
		return nil
	}
	return devLogger().Sugar()
}

func (u *unifier) logf(format string, args ...interface{}) {
	if u.log == nil {
		return
	}
	u.log.Debugf(strings.Repeat("... ", u.nest)+format, args...)
}

// assertf panics if the condition is false and strict checking is enabled.
func (u *unifier) assertf(b bool, format string, args ...interface{}) {
	if !b && config().Strict {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
