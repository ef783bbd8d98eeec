package logging

// Standardized field names for structured logging.
const (
	FieldFile      = "file_path"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldCount     = "count"
	FieldRow       = "row"
	FieldColumn    = "column"
	FieldField     = "field"
	FieldValue     = "value"
	FieldMissing   = "missing_fields"
	FieldFormat    = "format"
	FieldDelimiter = "delimiter"
	FieldEncoding  = "encoding"
	FieldInputDir  = "input_dir"
	FieldOutputDir = "output_dir"
	FieldModel     = "model"
)
