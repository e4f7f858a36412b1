package kb

// SeedArticles is the fixed demo knowledge base. cmd/seed serializes this
// list to data/knowledge_base.json; the JSON field order and content are kept
// stable for interoperability with the seed data file.
func SeedArticles() []Article {
	return []Article{
		{
			ID:       101,
			Category: "Hardware",
			Issue:    "Printer not responding or printing",
			Keywords: []string{"printer", "print", "paper", "jam", "offline"},
			Solution: "1. Check if the printer is turned on and connected to the network.\n" +
				"2. Restart the printer.\n" +
				"3. Clear the print queue on your computer.\n" +
				"4. Check for paper jams.",
		},
		{
			ID:       102,
			Category: "Access",
			Issue:    "VPN Connection Failed",
			Keywords: []string{"vpn", "connection", "network", "remote", "access"},
			Solution: "1. Ensure you have an active internet connection.\n" +
				"2. Verify your MFA token is correct.\n" +
				"3. Try switching the VPN protocol in settings to TCP.\n" +
				"4. Reinstall the VPN client if the issue persists.",
		},
		{
			ID:       103,
			Category: "Software",
			Issue:    "Application crashing on startup",
			Keywords: []string{"crash", "app", "software", "freeze", "close"},
			Solution: "1. Check for software updates.\n" +
				"2. Clear the application cache/temporary files.\n" +
				"3. Restart your computer.\n" +
				"4. If critical, request a reinstall via ticket.",
		},
		{
			ID:       104,
			Category: "Security",
			Issue:    "Password Reset Instructions",
			Keywords: []string{"password", "reset", "login", "forgot", "account"},
			Solution: "1. Go to the self-service portal at portal.company.com.\n" +
				"2. Click 'Forgot Password'.\n" +
				"3. Enter your employee ID.\n" +
				"4. Follow the SMS verification steps.",
		},
		{
			ID:       105,
			Category: "Email",
			Issue:    "Outlook not syncing",
			Keywords: []string{"email", "outlook", "sync", "receiving", "sending"},
			Solution: "1. Check internet connection.\n" +
				"2. Look for the 'Working Offline' toggle in the Send/Receive tab and turn it off.\n" +
				"3. Close and reopen Outlook.",
		},
	}
}
