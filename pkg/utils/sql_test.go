package utils

import "testing"

func TestFormatSQL(t *testing.T) {
	tests := []struct {
		name  string
		query string
		args  []interface{}
		want  string
	}{
		{
			name:  "mixed values",
			query: "INSERT INTO download (gid, title, tags) VALUES ($1, $2, $3)",
			args:  []interface{}{int64(1234567), "it's a title", []string{"female:glasses"}},
			want:  "INSERT INTO download (gid, title, tags) VALUES (1234567, 'it''s a title', ['female:glasses'])",
		},
		{
			name: "collapses whitespace",
			query: `
				UPDATE download
				SET state = $1
				WHERE gid = $2
			`,
			args: []interface{}{2, int64(99)},
			want: "UPDATE download SET state = 2 WHERE gid = 99",
		},
		{
			name:  "ten or more placeholders",
			query: "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
			args:  []interface{}{1, 2, 3, 4, 5, 6, 7, 8, 9, "tenth", true},
			want:  "VALUES (1, 2, 3, 4, 5, 6, 7, 8, 9, 'tenth', true)",
		},
		{
			name:  "placeholder without argument is left alone",
			query: "SELECT * FROM download WHERE gid = $1 AND state = $2",
			args:  []interface{}{int64(7)},
			want:  "SELECT * FROM download WHERE gid = 7 AND state = $2",
		},
		{
			name:  "nil is NULL",
			query: "UPDATE download SET label = $1",
			args:  []interface{}{nil},
			want:  "UPDATE download SET label = NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSQL(tt.query, tt.args...); got != tt.want {
				t.Errorf("FormatSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}
