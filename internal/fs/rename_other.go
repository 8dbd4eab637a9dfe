//go:build !linux

package fs

func renameNoReplace(r *Real, oldpath, newpath string) error {
	return renameCheckThenMove(r, oldpath, newpath)
}
