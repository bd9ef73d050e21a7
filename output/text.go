package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

const indentUnit = "  "

// timeFields are rendered as dates when they hold a number: the session dates are epoch milliseconds, the
// audit log timestamp epoch seconds.
var timeFields = map[string]time.Duration{
	"creationDate":   time.Millisecond,
	"lastActionDate": time.Millisecond,
	"timestamp":      time.Second,
}

// Text renders the JSON document b as nested "key: value" lines in document order, indenting two spaces
// per level. Empty lists are rendered as "None".
func Text(title string, b []byte) string {
	sb := strings.Builder{}
	res := gjson.ParseBytes(b)
	switch {
	case res.IsArray():
		writeList(&sb, title, res, 0)
	case res.IsObject():
		sb.WriteString(title + ":\n")
		writeObject(&sb, res, 1)
	default:
		fmt.Fprintf(&sb, "%s: %s\n", title, scalar("", res))
	}
	return sb.String()
}

func writeObject(sb *strings.Builder, obj gjson.Result, level int) {
	indent := strings.Repeat(indentUnit, level)
	obj.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.IsArray():
			writeList(sb, key.String(), value, level)
		case value.IsObject():
			sb.WriteString(indent + key.String() + ":\n")
			writeObject(sb, value, level+1)
		default:
			sb.WriteString(indent + key.String() + ": " + scalar(key.String(), value) + "\n")
		}
		return true
	})
}

func writeList(sb *strings.Builder, name string, list gjson.Result, level int) {
	indent := strings.Repeat(indentUnit, level)
	items := list.Array()
	if len(items) == 0 {
		sb.WriteString(indent + name + ": None\n")
		return
	}
	fmt.Fprintf(sb, "%s%s (%d items):\n", indent, name, len(items))
	for i, item := range items {
		switch {
		case item.IsObject():
			fmt.Fprintf(sb, "%s%s[%d]:\n", indent, indentUnit, i)
			writeObject(sb, item, level+2)
		case item.IsArray():
			writeList(sb, fmt.Sprintf("[%d]", i), item, level+1)
		default:
			fmt.Fprintf(sb, "%s%s[%d]: %s\n", indent, indentUnit, i, scalar("", item))
		}
	}
}

func scalar(key string, value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return "None"
	case gjson.Number:
		if unit, ok := timeFields[key]; ok && value.Int() > 0 {
			return FormatTime(value.Int(), unit)
		}
		return value.Raw
	}
	return value.String()
}

// FormatTime renders an epoch value in the given unit as local time followed by a relative time.
func FormatTime(v int64, unit time.Duration) string {
	var t time.Time
	if unit == time.Millisecond {
		t = time.Unix(0, v*int64(time.Millisecond))
	} else {
		t = time.Unix(v, 0)
	}
	return fmt.Sprintf("%s (%s)", t.Format("2006-01-02 15:04:05"), humanize.Time(t))
}
