package handler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// postedLines reads the repeated line inputs of a form. Inputs are named
// "<prefix>.<index>.<field>"; rows come back in index order with blank rows
// dropped, so error keys refer to the position of the row as re-rendered.
func postedLines(c *gin.Context, prefix string) []map[string]string {
	if err := c.Request.ParseForm(); err != nil {
		return nil
	}
	rows := map[int]map[string]string{}
	for key, values := range c.Request.PostForm {
		rest, ok := strings.CutPrefix(key, prefix+".")
		if !ok || len(values) == 0 {
			continue
		}
		idx, field, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 || i >= maxLines {
			continue
		}
		if rows[i] == nil {
			rows[i] = map[string]string{}
		}
		rows[i][field] = strings.TrimSpace(values[0])
	}

	indexes := make([]int, 0, len(rows))
	for i, row := range rows {
		if !blankRow(row) {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)

	out := make([]map[string]string, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, rows[i])
	}
	return out
}

const maxLines = 200

func blankRow(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// lineField builds the input of one line column
func lineField(prefix string, i int, name string, f view.Field) view.Field {
	f.Name = prefix + "." + strconv.Itoa(i) + "." + name
	return f
}
