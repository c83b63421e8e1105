// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package textui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer applies locale-aware number formatting (thousands
// separators and the like) to log output.
var printer = message.NewPrinter(language.English)
