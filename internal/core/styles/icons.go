package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconBoard    = "\U000F0564"
	IconTag      = ""
	IconCalendar = ""
	IconWarning  = ""
	IconCursor   = "▌"
)
