// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

// Logger prints verbose messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
	Print(v ...any)
	Println(v ...any)
}
