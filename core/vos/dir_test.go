package vos

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFsDir_Chdir(t *testing.T) {
	mfs := afero.NewMemMapFs()
	require.Nil(t, mfs.MkdirAll("/home/user/src", 0755))
	require.Nil(t, afero.WriteFile(mfs, "/home/user/notes.txt", nil, 0644))

	cases := map[string]struct {
		dir     string
		wantDir string
		wantErr bool
	}{
		"absolute":      {dir: "/home/user/src", wantDir: "/home/user/src"},
		"relative":      {dir: "src", wantDir: "/home/user/src"},
		"parent":        {dir: "..", wantDir: "/home"},
		"unclean":       {dir: "./src/../src/", wantDir: "/home/user/src"},
		"missing":       {dir: "/nonexistent", wantDir: "/home/user", wantErr: true},
		"not-directory": {dir: "notes.txt", wantDir: "/home/user", wantErr: true},
		"blank":         {dir: "", wantDir: "/home/user", wantErr: true},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			wd := NewFsDir(mfs, "/home/user")

			err := wd.Chdir(tc.dir)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.Nil(t, err)
			}

			got, err := wd.Getwd()
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDir, got)
		})
	}
}
