package contact

import "fmt"

// GuestPostMessage builds the personalized outreach subject and body
// for a site. The guidelines acknowledgement line is included only when
// the analysis actually found guidelines.
func GuestPostMessage(siteName, guidelines, fromName, fromEmail string) (subject, body string) {
	subject = fmt.Sprintf("Guest Post Proposal - Web3 Marketing Content for %s", siteName)

	ack := ""
	if guidelines != "" {
		ack = "I've reviewed your guest post guidelines and understand your requirements.\n\n"
	}

	body = fmt.Sprintf(`Dear %s Team,

I hope this email finds you well. I'm reaching out to propose a guest post for your website.

I specialize in Web3 and blockchain marketing, and I believe I could provide valuable content for your audience. I have extensive experience in DeFi marketing strategies, NFT promotion, and blockchain technology adoption.

Some topics I could cover include:
- Web3 Marketing Best Practices
- DeFi User Acquisition Strategies
- NFT Marketing and Community Building
- Blockchain Technology Adoption in Traditional Business
- Crypto Brand Development and Positioning

%sI would be happy to provide a detailed outline and samples of my previous work if you're interested.

Thank you for your time and consideration.

Best regards,
%s
%s
`, siteName, ack, fromName, fromEmail)

	return subject, body
}
