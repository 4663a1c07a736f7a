package poetry

import "poetry-reels/types"

// builtinPoems is the bundled public-domain collection. It guarantees
// the service can always produce text even before any fetch has run.
var builtinPoems = []types.Poem{
	{
		Lines: []string{
			"Two roads diverged in a yellow wood,",
			"And sorry I could not travel both",
			"And be one traveler, long I stood",
			"And looked down one as far as I could",
		},
		Author: "Robert Frost", Title: "The Road Not Taken", Source: "builtin", Theme: "nature",
	},
	{
		Lines: []string{
			"The woods are lovely, dark and deep,",
			"But I have promises to keep,",
			"And miles to go before I sleep,",
			"And miles to go before I sleep.",
		},
		Author: "Robert Frost", Title: "Stopping by Woods on a Snowy Evening", Source: "builtin", Theme: "forest",
	},
	{
		Lines: []string{
			"I wandered lonely as a cloud",
			"That floats on high o'er vales and hills,",
			"When all at once I saw a crowd,",
			"A host of golden daffodils.",
		},
		Author: "William Wordsworth", Title: "Daffodils", Source: "builtin", Theme: "nature",
	},
	{
		Lines: []string{
			"Hope is the thing with feathers",
			"That perches in the soul,",
			"And sings the tune without the words,",
			"And never stops at all.",
		},
		Author: "Emily Dickinson", Title: "Hope", Source: "builtin", Theme: "light",
	},
	{
		Lines: []string{
			"I'm nobody! Who are you?",
			"Are you nobody, too?",
			"Then there's a pair of us - don't tell!",
			"They'd banish us, you know.",
		},
		Author: "Emily Dickinson", Title: "I'm Nobody", Source: "builtin", Theme: "simplicity",
	},
	{
		Lines: []string{
			"Out of the huts of history's shame",
			"I rise",
			"Up from a past that's rooted in pain",
			"I rise",
		},
		Author: "Maya Angelou", Title: "Still I Rise", Source: "builtin", Theme: "growth",
	},
	{
		Lines: []string{
			"Hold fast to dreams",
			"For if dreams die",
			"Life is a broken-winged bird",
			"That cannot fly.",
		},
		Author: "Langston Hughes", Title: "Dreams", Source: "builtin", Theme: "moment",
	},
	{
		Lines: []string{
			"I've known rivers:",
			"I've known rivers ancient as the world and older than the",
			"flow of human blood in human veins.",
			"My soul has grown deep like the rivers.",
		},
		Author: "Langston Hughes", Title: "The Negro Speaks of Rivers", Source: "builtin", Theme: "water",
	},
	{
		Lines: []string{
			"I celebrate myself, and sing myself,",
			"And what I assume you shall assume,",
			"For every atom belonging to me as good belongs to you.",
			"I loafe and invite my soul,",
		},
		Author: "Walt Whitman", Title: "Song of Myself", Source: "builtin", Theme: "truth",
	},
	{
		Lines: []string{
			"Shall I compare thee to a summer's day?",
			"Thou art more lovely and more temperate:",
			"Rough winds do shake the darling buds of May,",
			"And summer's lease hath all too short a date:",
		},
		Author: "William Shakespeare", Title: "Sonnet 18", Source: "builtin", Theme: "beauty",
	},
	{
		Lines: []string{
			"It was many and many a year ago,",
			"In a kingdom by the sea,",
			"That a maiden there lived whom you may know",
			"By the name of Annabel Lee;",
		},
		Author: "Edgar Allan Poe", Title: "Annabel Lee", Source: "builtin", Theme: "ocean",
	},
	{
		Lines: []string{
			"If you can keep your head when all about you",
			"Are losing theirs and blaming it on you,",
			"If you can trust yourself when all men doubt you,",
			"But make allowance for their doubting too;",
		},
		Author: "Rudyard Kipling", Title: "If", Source: "builtin", Theme: "wisdom",
	},
	{
		Lines: []string{
			"She walks in beauty, like the night",
			"Of cloudless climes and starry skies;",
			"And all that's best of dark and bright",
			"Meet in her aspect and her eyes:",
		},
		Author: "Lord Byron", Title: "She Walks in Beauty", Source: "builtin", Theme: "beauty",
	},
	{
		Lines: []string{
			"I met a traveller from an antique land,",
			"Who said—Two vast and trunkless legs of stone",
			"Stand in the desert. Near them, on the sand,",
			"Half sunk a shattered visage lies, whose frown,",
		},
		Author: "Percy Bysshe Shelley", Title: "Ozymandias", Source: "builtin", Theme: "time",
	},
	{
		Lines: []string{
			"A thing of beauty is a joy for ever:",
			"Its loveliness increases; it will never",
			"Pass into nothingness; but still will keep",
			"A bower quiet for us, and a sleep",
		},
		Author: "John Keats", Title: "Endymion", Source: "builtin", Theme: "beauty",
	},
	{
		Lines: []string{
			"Season of mists and mellow fruitfulness,",
			"Close bosom-friend of the maturing sun;",
			"Conspiring with him how to load and bless",
			"With fruit the vines that round the thatch-eves run;",
		},
		Author: "John Keats", Title: "To Autumn", Source: "builtin", Theme: "seasons",
	},
	{
		Lines: []string{
			"Tyger Tyger, burning bright,",
			"In the forests of the night;",
			"What immortal hand or eye,",
			"Could frame thy fearful symmetry?",
		},
		Author: "William Blake", Title: "The Tyger", Source: "builtin", Theme: "forest",
	},
	{
		Lines: []string{
			"'Tis better to have loved and lost",
			"Than never to have loved at all.",
			"Strong Son of God, immortal Love,",
			"Whom we, that have not seen thy face,",
		},
		Author: "Alfred Lord Tennyson", Title: "In Memoriam A.H.H.", Source: "builtin", Theme: "reflection",
	},
	{
		Lines: []string{
			"I went to the woods to live deliberately,",
			"To front only the essential facts of life,",
			"And see if I could not learn what it had to teach,",
			"And not, when I came to die, discover that I had not lived.",
		},
		Author: "Henry David Thoreau", Title: "Walden", Source: "builtin", Theme: "nature",
	},
	{
		Lines: []string{
			"i carry your heart with me(i carry it in",
			"my heart)i am never without it(anywhere",
			"i go you go,my dear;and whatever is done",
			"by only me is your doing,my darling)",
		},
		Author: "e.e. cummings", Title: "i carry your heart with me", Source: "builtin", Theme: "essence",
	},
	{
		Lines: []string{
			"Tell me, what else should I have done?",
			"Doesn't everything die at last, and too soon?",
			"Tell me, what is it you plan to do",
			"with your one wild and precious life?",
		},
		Author: "Mary Oliver", Title: "The Summer Day", Source: "builtin", Theme: "nature",
	},
	{
		Lines: []string{
			"Out beyond ideas of wrongdoing and rightdoing,",
			"there is a field. I'll meet you there.",
			"When the soul lies down in that grass,",
			"the world is too full to talk about.",
		},
		Author: "Rumi", Title: "Out Beyond Ideas", Source: "builtin", Theme: "peace",
	},
	{
		Lines: []string{
			"Where the mind is without fear and the head is held high",
			"Where knowledge is free",
			"Where the world has not been broken up into fragments",
			"By narrow domestic walls",
		},
		Author: "Rabindranath Tagore", Title: "Where The Mind Is Without Fear", Source: "builtin", Theme: "clarity",
	},
	{
		Lines: []string{
			"I love you without knowing how, or when, or from where.",
			"I love you straightforwardly, without complexities or pride;",
			"so I love you because I don't know any other way",
			"than this: where I does not exist, nor you,",
		},
		Author: "Pablo Neruda", Title: "Sonnet XVII", Source: "builtin", Theme: "depth",
	},
}
