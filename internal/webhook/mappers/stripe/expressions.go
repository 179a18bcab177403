package stripe

// Event types recognized by this mapper. New types are added here and in
// mappingExpressions; no code changes required.
const (
	EventChargeDisputeCreated = "charge.dispute.created"
)

// Object subtypes that carry required-field validation.
const (
	ObjectDispute = "dispute"
)

// mappingExpressions binds each supported event type to the JSONata
// expression that maps its payload into the canonical chargeback record.
var mappingExpressions = map[string]string{
	EventChargeDisputeCreated: `
		{
			"transaction_id": data.object.charge,
			"reason": data.object.reason,
			"currency": $uppercase(data.object.currency),
			"amount": data.object.amount,
			"provider": "` + providerName + `"
		}
	`,
}

// fieldCheck names a required field on an object subtype and the message
// reported when it is missing or empty.
type fieldCheck struct {
	field   string
	message string
}

// objectFieldChecks lists required-field validation for each known object
// subtype, in reporting order. Unknown subtypes are deliberately not listed:
// they pass structural validation so future Stripe objects do not break
// existing merchants.
var objectFieldChecks = map[string][]fieldCheck{
	ObjectDispute: {
		{field: "charge", message: "missing 'charge' field in dispute object"},
		{field: "reason", message: "missing 'reason' field in dispute object"},
		{field: "currency", message: "missing 'currency' field in dispute object"},
		{field: "amount", message: "missing 'amount' field in dispute object"},
	},
}
