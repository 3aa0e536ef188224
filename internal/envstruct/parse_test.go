package envstruct_test

import (
	"github.com/gizahealth/inspector/internal/envstruct"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

func noEnv(_ string) (string, bool) { return "", false }

func TestPopulate(t *testing.T) {
	type args struct {
		v         any
		lookupEnv func(string) (string, bool)
	}
	tests := []struct {
		name    string
		args    args
		want    any
		wantErr error
	}{
		{
			name:    "nil",
			args:    args{v: nil, lookupEnv: noEnv},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "not pointer",
			args:    args{v: struct{}{}, lookupEnv: noEnv},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "empty struct",
			args:    args{v: &struct{}{}, lookupEnv: noEnv},
			want:    &struct{}{},
			wantErr: nil,
		},
		{
			name: "empty env",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr string `env:"INSPECTOR_ADDR"`
				}{},
				lookupEnv: noEnv,
			},
			want:    nil,
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name: "picks correct env variable",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr       string `env:"INSPECTOR_ADDR"`
					SQLiteURL  string `env:"INSPECTOR_SQLITE_URL"`
					OtherValue string
				}{},
				lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			},
			want: &struct {
				Addr       string
				SQLiteURL  string
				OtherValue string
			}{Addr: "inspector_addr", SQLiteURL: "inspector_sqlite_url", OtherValue: ""},
			wantErr: nil,
		},
		{
			name: "handles default values of all supported types",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Language  string        `env:"INSPECTOR_DEFAULT_LANGUAGE" envDefault:"ar"`
					Timeout   time.Duration `env:"INSPECTOR_AI_TIMEOUT" envDefault:"30s"`
					MaxTokens int           `env:"INSPECTOR_AI_MAX_TOKENS" envDefault:"1024"`
					Debug     bool          `env:"INSPECTOR_DEBUG" envDefault:"true"`
				}{},
				lookupEnv: noEnv,
			},
			want: &struct {
				Language  string
				Timeout   time.Duration
				MaxTokens int
				Debug     bool
			}{Language: "ar", Timeout: 30 * time.Second, MaxTokens: 1024, Debug: true},
			wantErr: nil,
		},
		{
			name: "rejects malformed duration",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Timeout time.Duration `env:"INSPECTOR_AI_TIMEOUT"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "soon", true },
			},
			want:    nil,
			wantErr: envstruct.ErrParse,
		},
		{
			name: "rejects malformed int",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					MaxTokens int `env:"INSPECTOR_AI_MAX_TOKENS"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "many", true },
			},
			want:    nil,
			wantErr: envstruct.ErrParse,
		},
		{
			name: "populates nested structs",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr string `env:"INSPECTOR_ADDR" envDefault:"localhost:4000"`
					AI   struct {
						Model string `env:"INSPECTOR_AI_MODEL" envDefault:"gpt-4o-mini"`
					}
				}{},
				lookupEnv: noEnv,
			},
			want: &struct {
				Addr string
				AI   struct {
					Model string
				}
			}{Addr: "localhost:4000", AI: struct{ Model string }{Model: "gpt-4o-mini"}},
			wantErr: nil,
		},
		{
			name: "only accepts supported types",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Ratio float64 `env:"INSPECTOR_RATIO" envDefault:"0.5"`
				}{},
				lookupEnv: noEnv,
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.args.v
			err := envstruct.Populate(v, tt.args.lookupEnv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.EqualValues(t, tt.want, v)
			}
		})
	}
}
