package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldProduct   = "product"
	FieldCategory  = "category"
	FieldPrice     = "price"
	FieldYearMonth = "year_month"
	FieldLogs      = "logs"
	FieldProducts  = "products"
	FieldExchange  = "exchange"
	FieldQueue     = "queue"
)

const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
)

const (
	OpAppend  = "append"
	OpProduct = "product"
	OpPublish = "publish"
	OpConsume = "consume"
	OpExport  = "export"
	OpImport  = "import"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithLogEntry adds the fields of one spending entry.
func (f LogFields) WithLogEntry(product string, price float64, yearMonth string) LogFields {
	f[FieldProduct] = product
	f[FieldPrice] = price
	f[FieldYearMonth] = yearMonth
	return f
}

func (f LogFields) WithProduct(product, category string) LogFields {
	f[FieldProduct] = product
	f[FieldCategory] = category
	return f
}

// WithSnapshot adds the size of a Finance snapshot.
func (f LogFields) WithSnapshot(logs, products int) LogFields {
	f[FieldLogs] = logs
	f[FieldProducts] = products
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
