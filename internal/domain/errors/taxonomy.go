package errors

// UnknownPlatform reports a key with no catalog entry
func UnknownPlatform(key string) *ProvisionError {
	return Newf(ErrUnknownPlatform, "no runner archive for platform %s", key).
		WithDetail("platform", key)
}

// DirectoryExists reports an install directory that is already present
func DirectoryExists(path string) *ProvisionError {
	return Newf(ErrDirectoryExists, "directory %q already exists", path).
		WithDetail("path", path)
}

// Network reports a transport failure (connection, DNS, timeout)
func Network(url string, err error) *ProvisionError {
	return Wrapf(err, ErrNetwork, "request to %s failed", url).
		WithDetail("url", url)
}

// HTTPStatus reports a non-success HTTP response
func HTTPStatus(url string, status int) *ProvisionError {
	return Newf(ErrHTTPStatus, "GET %s returned HTTP %d", url, status).
		WithDetail("url", url).
		WithDetail("status", status)
}

// Filesystem reports a local I/O failure
func Filesystem(op, path string, err error) *ProvisionError {
	return Wrapf(err, ErrFilesystem, "%s %s", op, path).
		WithDetail("path", path)
}

// Integrity reports a digest mismatch
func Integrity(file, expected, actual string) *ProvisionError {
	return Newf(ErrIntegrity, "checksum mismatch for %s: expected %s, got %s", file, expected, actual).
		WithDetail("path", file).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

// ExternalCommand reports a delegated command that exited non-zero
func ExternalCommand(name string, exitCode int, err error) *ProvisionError {
	return Wrapf(err, ErrExternalCommand, "%s exited with code %d", name, exitCode).
		WithDetail("command", name).
		WithDetail("exit_code", exitCode)
}

// UnsupportedOS reports an operating system the installer does not implement
func UnsupportedOS(os string) *ProvisionError {
	return Newf(ErrUnsupportedOS, "OS %q is not implemented", os).
		WithDetail("os", os)
}

// Archive reports a malformed or unsafe archive
func Archive(path string, err error) *ProvisionError {
	return Wrapf(err, ErrArchive, "cannot extract %s", path).
		WithDetail("path", path)
}

// Signature reports a catalog signature that failed to verify
func Signature(path string, err error) *ProvisionError {
	return Wrapf(err, ErrSignature, "signature check failed for %s", path).
		WithDetail("path", path)
}
