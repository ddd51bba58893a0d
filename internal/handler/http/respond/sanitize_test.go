package respond

import (
	"errors"
	"testing"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("incident not found"), want: "incident not found"},
		{
			name: "postgres dsn",
			err:  errors.New(`connect postgres://lima:s3cr3t@db:5432/incidents failed`),
			want: `connect postgres://lima:****@db:5432/incidents failed`,
		},
		{
			name: "keyword dsn",
			err:  errors.New(`cannot parse "host=db user=lima password=s3cr3t dbname=incidents"`),
			want: `cannot parse "host=db user=lima password=**** dbname=incidents"`,
		},
		{
			name: "quoted keyword password",
			err:  errors.New(`dsn host=db PASSWORD='a b c' sslmode=disable`),
			want: `dsn host=db PASSWORD=**** sslmode=disable`,
		},
		{
			name: "discord webhook",
			err:  errors.New(`Post "https://discord.com/api/webhooks/1234567890/abcDEF-123_xyz": timeout`),
			want: `Post "https://discord.com/api/webhooks/1234567890/****": timeout`,
		},
		{
			name: "slack webhook",
			err:  errors.New(`Post "https://hooks.slack.com/services/T000/B000/XXXXXXXX": EOF`),
			want: `Post "https://hooks.slack.com/services/****": EOF`,
		},
		{
			name: "sqlite path untouched",
			err:  errors.New("open /var/lib/lima-segura/incidents.db: permission denied"),
			want: "open /var/lib/lima-segura/incidents.db: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeError(tt.err); got != tt.want {
				t.Errorf("SanitizeError() = %q, want %q", got, tt.want)
			}
		})
	}
}
