package errors

import "fmt"

// WrapScanError wraps a failure to inspect one module or type during a scan
func WrapScanError(module, typeName string, cause error) *BaseError {
	item := fmt.Sprintf("module '%s'", module)
	if typeName != "" {
		item = fmt.Sprintf("type '%s' in module '%s'", typeName, module)
	}
	return Wrap(ScanErrorCode, "failed to scan "+item, cause).
		With("module", module).
		With("type", typeName)
}

// WrapPackageLoadError wraps a package that could not be loaded or type-checked
func WrapPackageLoadError(pkgPath string, cause error) *BaseError {
	return Wrap(PackageLoadErrorCode, fmt.Sprintf("failed to load package '%s'", pkgPath), cause).
		With("package", pkgPath)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrap(FileSystemErrorCode, fmt.Sprintf("failed to %s file '%s'", operation, path), cause).
		With("path", path)
}

// WrapConfigurationError wraps a configuration source that could not be used
func WrapConfigurationError(source, operation string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("failed to %s configuration '%s'", operation, source), cause).
		With("source", source)
}

// RegistrationError reports a registration marker that cannot be honoured
func RegistrationError(component, abstraction, reason string) *BaseError {
	message := fmt.Sprintf("component '%s' cannot register as '%s': %s", component, abstraction, reason)
	return New(RegistrationErrorCode, message).
		With("component", component).
		With("abstraction", abstraction)
}

// InjectionError reports an injection marker on a field that cannot receive a value
func InjectionError(owner, field, reason string) *BaseError {
	message := fmt.Sprintf("field '%s.%s' cannot be injected: %s", owner, field, reason)
	return New(InjectionErrorCode, message).
		With("owner", owner).
		With("field", field)
}
