package validation

// DefaultMessage is used for rules without a message template.
const DefaultMessage = ":field is not valid"

// DefaultMessages holds the message template of every built-in rule.
// ":field" is the field label and ":paramN" the Nth rule parameter.
var DefaultMessages = map[string]string{
	RuleNotEmpty:    ":field must not be empty",
	RuleMinLength:   ":field must be at least :param1 characters long",
	RuleMaxLength:   ":field must not exceed :param1 characters long",
	RuleExactLength: ":field must be exactly :param1 characters long",
	RuleEmail:       ":field must be an email address",
	RuleURL:         ":field must be a url",
	RuleRegex:       ":field does not match the required format",
	RuleDigit:       ":field must be a digit",
	RuleNumeric:     ":field must be numeric",
	RuleInteger:     ":field must be an integer",
	RuleDecimal:     ":field must be a decimal with :param1 places",
	RuleRange:       ":field must be within the range of :param1 to :param2",
	RuleMatches:     ":field must be the same as :param1",
	RuleInArray:     ":field must be one of the available options",
	RuleDate:        ":field must be a date",
}
