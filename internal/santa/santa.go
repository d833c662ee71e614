// Package santa implements the Secret Santa draw: a random derangement
// over a set of participants.
package santa

import (
	"errors"
	"math/rand/v2"

	"github.com/titilda/supersanta/internal/models"
)

// ErrTooFewParticipants is returned when fewer than two participants are
// given; a derangement is undefined below that size. The product-level
// floor of three members is enforced by the campaign service, not here.
var ErrTooFewParticipants = errors.New("need at least 2 participants to draw assignments")

// Assignments draws a random assignment for every participant such that
// nobody is assigned to themselves and every participant appears exactly
// once as a giver and once as a recipient.
//
// The draw works on two independently shuffled copies of the input,
// paired by position. A giver who would be paired with themselves is put
// back at the front of the giver pool and the next giver is taken
// instead, which keeps the walk moving forward without reshuffling. The
// final two pairs get an explicit repair: if pairing them by position
// would self-pair either one, the two recipients are swapped. One of the
// two arrangements of two givers over two recipients is always free of
// fixed points, so the draw terminates without retries.
func Assignments(participants []string) ([]models.Assignment, error) {
	if len(participants) < 2 {
		return nil, ErrTooFewParticipants
	}

	givers := make([]string, len(participants))
	recipients := make([]string, len(participants))
	copy(givers, participants)
	copy(recipients, participants)
	rand.Shuffle(len(givers), func(i, j int) {
		givers[i], givers[j] = givers[j], givers[i]
	})
	rand.Shuffle(len(recipients), func(i, j int) {
		recipients[i], recipients[j] = recipients[j], recipients[i]
	})

	result := make([]models.Assignment, 0, len(participants))

	for len(givers) > 2 {
		giver := givers[len(givers)-1]
		givers = givers[:len(givers)-1]
		recipient := recipients[len(recipients)-1]
		recipients = recipients[:len(recipients)-1]

		if giver == recipient {
			// Defer the self-paired giver: back to the front of the
			// pool, take the next one for this recipient.
			givers = append([]string{giver}, givers...)
			giver = givers[len(givers)-1]
			givers = givers[:len(givers)-1]
		}

		result = append(result, models.Assignment{GiverID: giver, RecipientID: recipient})
	}

	// Last two pairs: positional pairing unless it would self-pair
	// either side, in which case the recipients are crossed.
	if givers[0] != recipients[0] && givers[1] != recipients[1] {
		result = append(result,
			models.Assignment{GiverID: givers[0], RecipientID: recipients[0]},
			models.Assignment{GiverID: givers[1], RecipientID: recipients[1]},
		)
	} else {
		result = append(result,
			models.Assignment{GiverID: givers[0], RecipientID: recipients[1]},
			models.Assignment{GiverID: givers[1], RecipientID: recipients[0]},
		)
	}

	return result, nil
}
